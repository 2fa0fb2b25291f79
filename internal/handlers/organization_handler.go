package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smartq/internal/audit"
	"github.com/BruksfildServices01/smartq/internal/dto"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/httpresp"
	"github.com/BruksfildServices01/smartq/internal/models"
)

const organizationNameConstraint = "ux_organizations_name"

type OrganizationHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewOrganizationHandler(db *gorm.DB, audit *audit.Dispatcher) *OrganizationHandler {
	return &OrganizationHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
	Active   *bool  `json:"active"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Location *string `json:"location"`
	Contact  *string `json:"contact"`
	Active   *bool   `json:"active"`
}

// --------- Handlers ---------

func (h *OrganizationHandler) List(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	var out []dto.OrganizationListDTO
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Organization{}).
		Select(`organizations.id, organizations.name, organizations.category,
			organizations.location, organizations.contact, organizations.active,
			organizations.created_at, COUNT(services.id) AS services_count`).
		Joins("LEFT JOIN services ON services.organization_id = organizations.id").
		Group("organizations.id").
		Order("organizations.name ASC").
		Scan(&out).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var org models.Organization
	if err := h.db.WithContext(c.Request.Context()).First(&org, id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_request", "Name is required.")
		return
	}

	if h.nameTaken(c, name, 0) {
		httperr.Conflict(c, "organization_exists", httperr.MessageFor("organization_exists"))
		return
	}

	org := models.Organization{
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Location: strings.TrimSpace(req.Location),
		Contact:  strings.TrimSpace(req.Contact),
		Active:   true,
	}
	if req.Active != nil {
		org.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&org).Error; err != nil {
		h.respondWrite(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "organization_created",
		Entity:   "organization",
		EntityID: &org.ID,
		Metadata: map[string]any{"name": org.Name},
	})

	httpresp.Created(c, org)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	var org models.Organization
	if err := h.db.WithContext(c.Request.Context()).First(&org, id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Name is required.")
			return
		}
		if h.nameTaken(c, name, org.ID) {
			httperr.Conflict(c, "organization_exists", httperr.MessageFor("organization_exists"))
			return
		}
		org.Name = name
	}
	if req.Category != nil {
		org.Category = strings.TrimSpace(*req.Category)
	}
	if req.Location != nil {
		org.Location = strings.TrimSpace(*req.Location)
	}
	if req.Contact != nil {
		org.Contact = strings.TrimSpace(*req.Contact)
	}
	if req.Active != nil {
		org.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&org).Error; err != nil {
		h.respondWrite(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "organization_updated",
		Entity:   "organization",
		EntityID: &org.ID,
	})

	c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Organization{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "organization_not_found", httperr.MessageFor("organization_not_found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "organization_deleted",
		Entity:   "organization",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *OrganizationHandler) nameTaken(c *gin.Context, name string, exceptID uint) bool {
	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.Organization{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exceptID).
		Count(&count)
	return count > 0
}

func (h *OrganizationHandler) respondLookup(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "organization_not_found", httperr.MessageFor("organization_not_found"))
		return
	}
	httperr.Respond(c, err)
}

func (h *OrganizationHandler) respondWrite(c *gin.Context, err error) {
	if httperr.IsUniqueViolation(err, organizationNameConstraint) {
		httperr.Conflict(c, "organization_exists", httperr.MessageFor("organization_exists"))
		return
	}
	httperr.Respond(c, err)
}
