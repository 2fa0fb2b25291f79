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

// AdminUserHandler manages administrator accounts.
type AdminUserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminUserHandler(db *gorm.DB, audit *audit.Dispatcher) *AdminUserHandler {
	return &AdminUserHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AdminUserHandler) List(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdmin); !ok {
		return
	}

	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("role = ?", models.RoleAdmin).
		Order("id ASC").
		Find(&users).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}

	httpresp.List(c, out)
}

func (h *AdminUserHandler) Create(c *gin.Context) {
	adminID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		httperr.BadRequest(c, "invalid_request", "Username is required.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not store the password.")
		return
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err, usernameConstraint) {
			httperr.Conflict(c, "username_taken", httperr.MessageFor("username_taken"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "admin_created",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"username": username},
	})

	httpresp.Created(c, toUserDTO(&user))
}

func (h *AdminUserHandler) Delete(c *gin.Context) {
	adminID, ok := requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if id == adminID {
		httperr.Conflict(c, "cannot_delete_self", httperr.MessageFor("cannot_delete_self"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("role = ?", models.RoleAdmin).
		Delete(&models.User{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", httperr.MessageFor("user_not_found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "admin_deleted",
		Entity:   "user",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

func toUserDTO(u *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		LastLogin: u.LastLoginAt,
		CreatedAt: u.CreatedAt,
	}
}
