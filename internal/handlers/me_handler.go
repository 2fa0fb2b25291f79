package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		httperr.Unauthorized(c, "user_not_in_context", "Authentication required.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", httperr.MessageFor("user_not_found"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"role":       user.Role,
			"active":     user.Active,
			"last_login": user.LastLoginAt,
		},
	}

	if user.Role == models.RoleStaff {
		var provider models.Provider
		err := h.db.WithContext(c.Request.Context()).
			Preload("Service").
			Where("user_id = ?", user.ID).
			First(&provider).Error
		if err == nil {
			resp["provider"] = gin.H{
				"id":     provider.ID,
				"name":   provider.DisplayName,
				"phone":  provider.Phone,
				"active": provider.Active,
			}
			resp["service"] = provider.Service
		} else if err != gorm.ErrRecordNotFound {
			httperr.Respond(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
