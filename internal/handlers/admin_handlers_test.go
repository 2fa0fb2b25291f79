package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smartq/internal/models"
)

// newAdminRouter mounts the admin surface. Handlers get no database, so
// only paths that stop before the first query may be exercised.
func newAdminRouter() *gin.Engine {
	orgs := NewOrganizationHandler(nil, nil)
	services := NewServiceHandler(nil, nil)
	providers := NewProviderHandler(nil, nil)
	admins := NewAdminUserHandler(nil, nil)
	analytics := NewAnalyticsHandler(nil, nil, nil, nil, nil, "UTC")
	logs := NewAuditLogsHandler(nil, "UTC")
	me := NewMeHandler(nil)

	r := gin.New()
	r.Use(asUser())
	r.GET("/api/me", me.GetMe)

	r.GET("/api/admin/organizations", orgs.List)
	r.GET("/api/admin/organizations/:id", orgs.Get)
	r.POST("/api/admin/organizations", orgs.Create)
	r.PUT("/api/admin/organizations/:id", orgs.Update)
	r.DELETE("/api/admin/organizations/:id", orgs.Delete)

	r.GET("/api/admin/services", services.List)
	r.GET("/api/admin/services/:id", services.Get)
	r.POST("/api/admin/services", services.Create)
	r.DELETE("/api/admin/services/:id", services.Delete)

	r.GET("/api/admin/providers", providers.List)
	r.POST("/api/admin/providers", providers.Create)
	r.PUT("/api/admin/providers/:id", providers.Update)
	r.DELETE("/api/admin/providers/:id", providers.Delete)

	r.GET("/api/admin/admins", admins.List)
	r.POST("/api/admin/admins", admins.Create)
	r.DELETE("/api/admin/admins/:id", admins.Delete)

	r.GET("/api/admin/analytics/overview", analytics.Overview)
	r.GET("/api/admin/analytics/services", analytics.Services)
	r.GET("/api/admin/analytics/snapshots", analytics.ListSnapshots)
	r.POST("/api/admin/analytics/snapshots", analytics.TakeSnapshot)

	r.GET("/api/admin/audit-logs", logs.List)
	return r
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	r := newAdminRouter()

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/organizations"},
		{http.MethodGet, "/api/admin/organizations/1"},
		{http.MethodPost, "/api/admin/organizations"},
		{http.MethodPut, "/api/admin/organizations/1"},
		{http.MethodDelete, "/api/admin/organizations/1"},
		{http.MethodGet, "/api/admin/services"},
		{http.MethodGet, "/api/admin/services/1"},
		{http.MethodPost, "/api/admin/services"},
		{http.MethodDelete, "/api/admin/services/1"},
		{http.MethodGet, "/api/admin/providers"},
		{http.MethodPost, "/api/admin/providers"},
		{http.MethodPut, "/api/admin/providers/1"},
		{http.MethodDelete, "/api/admin/providers/1"},
		{http.MethodGet, "/api/admin/admins"},
		{http.MethodPost, "/api/admin/admins"},
		{http.MethodDelete, "/api/admin/admins/2"},
		{http.MethodGet, "/api/admin/analytics/overview"},
		{http.MethodGet, "/api/admin/analytics/services"},
		{http.MethodGet, "/api/admin/analytics/snapshots"},
		{http.MethodPost, "/api/admin/analytics/snapshots"},
		{http.MethodGet, "/api/admin/audit-logs"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(r, rt.method, rt.path, gin.H{}, 0, "")
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("anonymous: expected 401, got %d", w.Code)
			}
			if got := decode(t, w)["error_code"]; got != "unauthorized" {
				t.Fatalf("anonymous: error_code %v", got)
			}

			w = do(r, rt.method, rt.path, gin.H{}, staffUserID, models.RoleStaff)
			if w.Code != http.StatusForbidden {
				t.Fatalf("staff: expected 403, got %d", w.Code)
			}
			if got := decode(t, w)["error_code"]; got != "forbidden" {
				t.Fatalf("staff: error_code %v", got)
			}
		})
	}
}

func TestAdminRequestValidation(t *testing.T) {
	r := newAdminRouter()

	cases := []struct {
		name         string
		method, path string
		body         any
		status       int
		code         string
	}{
		{"org without name", http.MethodPost, "/api/admin/organizations", gin.H{"category": "bank"}, http.StatusBadRequest, "invalid_request"},
		{"org blank name", http.MethodPost, "/api/admin/organizations", gin.H{"name": "   "}, http.StatusBadRequest, "invalid_request"},
		{"org bad id", http.MethodGet, "/api/admin/organizations/abc", nil, http.StatusBadRequest, "invalid_id"},
		{"org zero id", http.MethodDelete, "/api/admin/organizations/0", nil, http.StatusBadRequest, "invalid_id"},
		{"service without organization", http.MethodPost, "/api/admin/services", gin.H{"name": "Teller"}, http.StatusBadRequest, "invalid_request"},
		{"service blank name", http.MethodPost, "/api/admin/services", gin.H{"organization_id": 1, "name": " "}, http.StatusBadRequest, "invalid_request"},
		{"service bad id", http.MethodDelete, "/api/admin/services/x", nil, http.StatusBadRequest, "invalid_id"},
		{"provider short password", http.MethodPost, "/api/admin/providers", gin.H{"username": "bob", "password": "123", "name": "Bob", "service_id": 1}, http.StatusBadRequest, "invalid_request"},
		{"provider without service", http.MethodPost, "/api/admin/providers", gin.H{"username": "bob", "password": "secret1", "name": "Bob"}, http.StatusBadRequest, "invalid_request"},
		{"provider blank username", http.MethodPost, "/api/admin/providers", gin.H{"username": "  ", "password": "secret1", "name": "Bob", "service_id": 1}, http.StatusBadRequest, "invalid_request"},
		{"provider bad id", http.MethodPut, "/api/admin/providers/-1", gin.H{}, http.StatusBadRequest, "invalid_id"},
		{"admin short password", http.MethodPost, "/api/admin/admins", gin.H{"username": "root2", "password": "abc"}, http.StatusBadRequest, "invalid_request"},
		{"admin blank username", http.MethodPost, "/api/admin/admins", gin.H{"username": " ", "password": "secret1"}, http.StatusBadRequest, "invalid_request"},
		{"admin bad id", http.MethodDelete, "/api/admin/admins/none", nil, http.StatusBadRequest, "invalid_id"},
		{"snapshots bad date", http.MethodGet, "/api/admin/analytics/snapshots?from=2024-13-01", nil, http.StatusBadRequest, "invalid_date"},
		{"audit logs bad from", http.MethodGet, "/api/admin/audit-logs?from=bad", nil, http.StatusBadRequest, "invalid_date"},
		{"audit logs bad to", http.MethodGet, "/api/admin/audit-logs?to=2024/01/01", nil, http.StatusBadRequest, "invalid_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.path, tc.body, adminUserID, models.RoleAdmin)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if got := decode(t, w)["error_code"]; got != tc.code {
				t.Fatalf("error_code %v, want %s", got, tc.code)
			}
		})
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	r := newAdminRouter()

	w := do(r, http.MethodDelete, "/api/admin/admins/1", nil, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if got := decode(t, w)["error_code"]; got != "cannot_delete_self" {
		t.Fatalf("error_code %v", got)
	}
}

func TestMeRequiresUser(t *testing.T) {
	r := newAdminRouter()

	w := do(r, http.MethodGet, "/api/me", nil, 0, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := decode(t, w)["error_code"]; got != "user_not_in_context" {
		t.Fatalf("error_code %v", got)
	}
}
