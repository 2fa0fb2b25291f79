package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smartq/internal/authz"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/middleware"
	"github.com/BruksfildServices01/smartq/internal/timezone"
)

// currentUser reads the caller set by AuthMiddleware.
func currentUser(c *gin.Context) (uint, string, bool) {
	idVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return 0, "", false
	}
	userID, ok := idVal.(uint)
	if !ok || userID == 0 {
		return 0, "", false
	}
	role, _ := c.Get(middleware.ContextUserRole)
	roleStr, _ := role.(string)
	return userID, roleStr, true
}

// requireRole writes 401/403 and returns false unless the caller has role.
func requireRole(c *gin.Context, role string) (uint, bool) {
	userID, callerRole, ok := currentUser(c)
	if !ok {
		httperr.Unauthorized(c, "unauthorized", "Authentication required.")
		return 0, false
	}
	if !authz.Allowed(callerRole, role) {
		httperr.Forbidden(c, "forbidden", httperr.MessageFor("forbidden"))
		return 0, false
	}
	return userID, true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", httperr.MessageFor("invalid_id"))
		return 0, false
	}
	return uint(id), true
}

// parseDayParam reads an optional YYYY-MM-DD query value. A missing value
// yields the zero time.
func parseDayParam(c *gin.Context, key, tz string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	d, err := timezone.ParseDay(raw, timezone.Location(tz))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", httperr.MessageFor("invalid_date"))
		return time.Time{}, false
	}
	return d, true
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_code": "invalid_request",
		"message":    httperr.MessageFor("invalid_request"),
		"details":    err.Error(),
	})
}
