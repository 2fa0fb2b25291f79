package handlers

import (
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/smartq/internal/db"
	"github.com/BruksfildServices01/smartq/internal/models"
)

func adminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := dbpkg.Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(`TRUNCATE audit_logs, analytics_snapshots, ticket_sequences, queue_tickets, providers, users, services, organizations RESTART IDENTITY CASCADE`).Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newAdminDBRouter(db *gorm.DB) *gin.Engine {
	orgs := NewOrganizationHandler(db, nil)
	providers := NewProviderHandler(db, nil)
	admins := NewAdminUserHandler(db, nil)

	r := gin.New()
	r.Use(asUser())
	r.POST("/api/admin/organizations", orgs.Create)
	r.POST("/api/admin/providers", providers.Create)
	r.POST("/api/admin/admins", admins.Create)
	return r
}

func TestOrganizationNameConflict(t *testing.T) {
	db := adminTestDB(t)
	r := newAdminDBRouter(db)

	w := do(r, http.MethodPost, "/api/admin/organizations", gin.H{"name": "Kigali Clinic"}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/admin/organizations", gin.H{"name": "kigali clinic"}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusConflict || decode(t, w)["error_code"] != "organization_exists" {
		t.Fatalf("expected organization_exists, got %d %s", w.Code, w.Body.String())
	}
}

func TestUsernameConflict(t *testing.T) {
	db := adminTestDB(t)
	r := newAdminDBRouter(db)

	body := gin.H{"username": "Root2", "password": "secret1"}
	if w := do(r, http.MethodPost, "/api/admin/admins", body, adminUserID, models.RoleAdmin); w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w := do(r, http.MethodPost, "/api/admin/admins", gin.H{"username": "root2", "password": "secret2"}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusConflict || decode(t, w)["error_code"] != "username_taken" {
		t.Fatalf("expected username_taken, got %d %s", w.Code, w.Body.String())
	}
}

func TestProviderCreateIsAtomic(t *testing.T) {
	db := adminTestDB(t)
	r := newAdminDBRouter(db)

	org := models.Organization{Name: "Kigali Clinic", Active: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}
	svc := models.Service{OrganizationID: org.ID, Name: "Consultation", Active: true}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatal(err)
	}

	// Unknown service: neither the user nor the provider row may remain.
	w := do(r, http.MethodPost, "/api/admin/providers", gin.H{
		"username": "alice", "password": "secret1", "name": "Alice", "service_id": svc.ID + 99,
	}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusNotFound || decode(t, w)["error_code"] != "service_not_found" {
		t.Fatalf("expected service_not_found, got %d %s", w.Code, w.Body.String())
	}
	var users int64
	db.Model(&models.User{}).Where("username = ?", "alice").Count(&users)
	if users != 0 {
		t.Fatal("user row left behind by failed provider create")
	}

	w = do(r, http.MethodPost, "/api/admin/providers", gin.H{
		"username": "alice", "password": "secret1", "name": "Alice", "service_id": svc.ID,
	}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	// Taken username: the provider insert never runs.
	w = do(r, http.MethodPost, "/api/admin/providers", gin.H{
		"username": "ALICE", "password": "secret1", "name": "Alice Two", "service_id": svc.ID,
	}, adminUserID, models.RoleAdmin)
	if w.Code != http.StatusConflict || decode(t, w)["error_code"] != "username_taken" {
		t.Fatalf("expected username_taken, got %d %s", w.Code, w.Body.String())
	}
	var providers int64
	db.Model(&models.Provider{}).Count(&providers)
	if providers != 1 {
		t.Fatalf("expected 1 provider, got %d", providers)
	}
}
