package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smartq/internal/audit"
	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/dto"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/httpresp"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	OrganizationID uint   `json:"organization_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Counter        string `json:"counter"`
	EstimatedTime  *int   `json:"estimated_time"`
	Active         *bool  `json:"active"`
}

type UpdateServiceRequest struct {
	OrganizationID *uint   `json:"organization_id"`
	Name           *string `json:"name"`
	Counter        *string `json:"counter"`
	EstimatedTime  *int    `json:"estimated_time"`
	Active         *bool   `json:"active"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Preload("Organization")
	if raw := c.Query("organization_id"); raw != "" {
		orgID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", httperr.MessageFor("invalid_id"))
			return
		}
		q = q.Where("organization_id = ?", orgID)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	counts, err := waitingCounts(h.db.WithContext(c.Request.Context()), serviceIDs(services))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.ServiceListDTO, 0, len(services))
	for _, s := range services {
		item := dto.ServiceListDTO{
			ID:                 s.ID,
			OrganizationID:     s.OrganizationID,
			Name:               s.Name,
			Counter:            s.CounterLabel,
			EstimatedTime:      s.EstimatedServiceMinutes,
			Active:             s.Active,
			CurrentQueueLength: counts[s.ID],
			CreatedAt:          s.CreatedAt,
		}
		if s.Organization != nil {
			item.OrganizationName = s.Organization.Name
		}
		out = append(out, item)
	}

	httpresp.List(c, out)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Organization").
		First(&svc, id).Error; err != nil {

		respondServiceLookup(c, err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_request", "Name is required.")
		return
	}

	if !h.organizationExists(c, req.OrganizationID) {
		httperr.BadRequest(c, "organization_missing", httperr.MessageFor("organization_missing"))
		return
	}

	svc := models.Service{
		OrganizationID:          req.OrganizationID,
		Name:                    name,
		CounterLabel:            strings.TrimSpace(req.Counter),
		EstimatedServiceMinutes: domain.DefaultServiceMinutes,
		Active:                  true,
	}
	if req.EstimatedTime != nil {
		if *req.EstimatedTime <= 0 {
			httperr.BadRequest(c, "invalid_request", "Estimated time must be positive.")
			return
		}
		svc.EstimatedServiceMinutes = *req.EstimatedTime
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: map[string]any{"organization_id": svc.OrganizationID, "name": svc.Name},
	})

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error; err != nil {
		respondServiceLookup(c, err)
		return
	}

	if req.OrganizationID != nil {
		if !h.organizationExists(c, *req.OrganizationID) {
			httperr.BadRequest(c, "organization_missing", httperr.MessageFor("organization_missing"))
			return
		}
		svc.OrganizationID = *req.OrganizationID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Name is required.")
			return
		}
		svc.Name = name
	}
	if req.Counter != nil {
		svc.CounterLabel = strings.TrimSpace(*req.Counter)
	}
	if req.EstimatedTime != nil {
		if *req.EstimatedTime <= 0 {
			httperr.BadRequest(c, "invalid_request", "Estimated time must be positive.")
			return
		}
		svc.EstimatedServiceMinutes = *req.EstimatedTime
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	userID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Service{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", httperr.MessageFor("service_not_found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *ServiceHandler) organizationExists(c *gin.Context, id uint) bool {
	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.Organization{}).
		Where("id = ?", id).
		Count(&count)
	return count > 0
}

func respondServiceLookup(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "service_not_found", httperr.MessageFor("service_not_found"))
		return
	}
	httperr.Respond(c, err)
}
