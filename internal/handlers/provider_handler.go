package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smartq/internal/audit"
	"github.com/BruksfildServices01/smartq/internal/dto"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/httpresp"
	"github.com/BruksfildServices01/smartq/internal/models"
)

const usernameConstraint = "ux_users_username"

var (
	errUsernameTaken   = httperr.ErrConflict("username_taken")
	errServiceNotFound = httperr.ErrNotFound("service_not_found")
)

// ProviderHandler manages staff accounts. A provider is always created and
// deleted together with its login user.
type ProviderHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProviderHandler(db *gorm.DB, audit *audit.Dispatcher) *ProviderHandler {
	return &ProviderHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateProviderRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Active    *bool  `json:"active"`
}

type UpdateProviderRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	ServiceID *uint   `json:"service_id"`
	Active    *bool   `json:"active"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
}

// --------- Handlers ---------

func (h *ProviderHandler) List(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Service")
	if sid := c.Query("service_id"); sid != "" {
		q = q.Where("service_id = ?", sid)
	}

	var providers []models.Provider
	if err := q.Order("id ASC").Find(&providers).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.ProviderDTO, 0, len(providers))
	for i := range providers {
		out = append(out, toProviderDTO(&providers[i]))
	}

	httpresp.List(c, out)
}

func (h *ProviderHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.load(c, id)
	if err != nil {
		respondProviderLookup(c, err)
		return
	}

	c.JSON(http.StatusOK, toProviderDTO(p))
}

func (h *ProviderHandler) Create(c *gin.Context) {
	adminID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}

	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	name := strings.TrimSpace(req.Name)
	if username == "" || name == "" {
		httperr.BadRequest(c, "invalid_request", "Username and name are required.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not store the password.")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var provider models.Provider
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := requireService(tx, req.ServiceID); err != nil {
			return err
		}

		user := models.User{
			Username:     username,
			PasswordHash: string(hashed),
			Role:         models.RoleStaff,
			Active:       active,
		}
		if err := tx.Create(&user).Error; err != nil {
			if httperr.IsUniqueViolation(err, usernameConstraint) {
				return errUsernameTaken
			}
			return err
		}

		provider = models.Provider{
			UserID:      user.ID,
			ServiceID:   req.ServiceID,
			DisplayName: name,
			Phone:       strings.TrimSpace(req.Phone),
			Active:      active,
		}
		return tx.Create(&provider).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "provider_created",
		Entity:   "provider",
		EntityID: &provider.ID,
		Metadata: map[string]any{"username": username, "service_id": req.ServiceID},
	})

	p, err := h.load(c, provider.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, toProviderDTO(p))
}

func (h *ProviderHandler) Update(c *gin.Context) {
	adminID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	var hashed []byte
	if req.Password != nil {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not store the password.")
			return
		}
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var p models.Provider
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}

		if req.ServiceID != nil {
			if err := requireService(tx, *req.ServiceID); err != nil {
				return err
			}
			p.ServiceID = *req.ServiceID
		}
		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				p.DisplayName = name
			}
		}
		if req.Phone != nil {
			p.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		userUpdates := map[string]any{}
		if req.Active != nil {
			userUpdates["active"] = *req.Active
		}
		if hashed != nil {
			userUpdates["password_hash"] = string(hashed)
		}
		if len(userUpdates) == 0 {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", p.UserID).Updates(userUpdates).Error
	})
	if err != nil {
		respondProviderLookup(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "provider_updated",
		Entity:   "provider",
		EntityID: &id,
	})

	p, err := h.load(c, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toProviderDTO(p))
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	adminID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var p models.Provider
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, p.UserID).Error
	})
	if err != nil {
		respondProviderLookup(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "provider_deleted",
		Entity:   "provider",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *ProviderHandler) load(c *gin.Context, id uint) (*models.Provider, error) {
	var p models.Provider
	if err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Service").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func requireService(tx *gorm.DB, serviceID uint) error {
	var count int64
	if err := tx.Model(&models.Service{}).Where("id = ?", serviceID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errServiceNotFound
	}
	return nil
}

func respondProviderLookup(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}
	httperr.Respond(c, err)
}

func toProviderDTO(p *models.Provider) dto.ProviderDTO {
	out := dto.ProviderDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.DisplayName,
		Phone:     p.Phone,
		ServiceID: p.ServiceID,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
	if p.User != nil {
		out.Username = p.User.Username
		out.LastLogin = p.User.LastLoginAt
	}
	if p.Service != nil {
		out.ServiceName = p.Service.Name
	}
	return out
}
