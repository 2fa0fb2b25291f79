package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/smartq/internal/db"
	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates and empties the
// schema. Tests are skipped when the variable is not set.
func setupTestDB(t *testing.T) *gorm.DB {
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

type fixture struct {
	service   models.Service
	providers []models.Provider
}

func seed(t *testing.T, db *gorm.DB, providers int) fixture {
	t.Helper()

	org := models.Organization{Name: "Kigali Clinic", Category: "hospital", Active: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}
	svc := models.Service{OrganizationID: org.ID, Name: "Consultation", CounterLabel: "Room 3", EstimatedServiceMinutes: 7, Active: true}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatal(err)
	}

	f := fixture{service: svc}
	for i := 0; i < providers; i++ {
		u := models.User{Username: fmt.Sprintf("staff%d", i), PasswordHash: "x", Role: models.RoleStaff, Active: true}
		if err := db.Create(&u).Error; err != nil {
			t.Fatal(err)
		}
		p := models.Provider{UserID: u.ID, ServiceID: svc.ID, DisplayName: u.Username, Active: true}
		if err := db.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
		f.providers = append(f.providers, p)
	}
	return f
}

func createWaiting(t *testing.T, repo *TicketGormRepository, serviceID uint, number string, priority int, created time.Time) *models.QueueTicket {
	t.Helper()
	tk := &models.QueueTicket{
		QueueNumber: number,
		ServiceID:   serviceID,
		ClientPhone: "+250788123456",
		Status:      string(domain.StatusWaiting),
		Priority:    priority,
		CreatedAt:   created.Truncate(time.Microsecond),
	}
	if err := repo.CreateTicket(context.Background(), tk); err != nil {
		t.Fatalf("create %s: %v", number, err)
	}
	return tk
}

func TestPositionsFollowPriorityThenArrival(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db, 0)
	repo := NewTicketGormRepository(db)
	ctx := context.Background()

	t1 := time.Now().Add(-time.Hour)
	a := createWaiting(t, repo, f.service.ID, "A", 0, t1)
	b := createWaiting(t, repo, f.service.ID, "B", 0, t1.Add(time.Minute))
	c := createWaiting(t, repo, f.service.ID, "C", 5, t1.Add(2*time.Minute))

	for tk, want := range map[*models.QueueTicket]int{c: 1, a: 2, b: 3} {
		ahead, err := repo.CountAhead(ctx, tk)
		if err != nil {
			t.Fatal(err)
		}
		if got := domain.Position(tk, ahead); got != want {
			t.Fatalf("%s: position %d, want %d", tk.QueueNumber, got, want)
		}
	}

	list, err := repo.ListWaiting(ctx, f.service.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ID != c.ID || list[1].ID != a.ID || list[2].ID != b.ID {
		t.Fatalf("unexpected queue order %+v", list)
	}
}

func TestDuplicateQueueNumberIsReported(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db, 0)
	repo := NewTicketGormRepository(db)

	createWaiting(t, repo, f.service.ID, "Q202610150001", 0, time.Now())
	dup := &models.QueueTicket{QueueNumber: "Q202610150001", ServiceID: f.service.ID, ClientPhone: "+250788123456", Status: "waiting"}

	if err := repo.CreateTicket(context.Background(), dup); !errors.Is(err, domain.ErrDuplicateQueueNumber) {
		t.Fatalf("expected ErrDuplicateQueueNumber, got %v", err)
	}
}

func TestNextSequenceIsMonotonicPerDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketGormRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := repo.NextSequence(ctx, "20261015")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	got, err := repo.NextSequence(ctx, "20261016")
	if err != nil || got != 1 {
		t.Fatalf("new day should restart at 1, got %d (%v)", got, err)
	}
}

func TestConcurrentCallNextServesOneTicket(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db, 4)
	repo := NewTicketGormRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createWaiting(t, repo, f.service.ID, fmt.Sprintf("Q%d", i), 0, base.Add(time.Duration(i)*time.Minute))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(f.providers))
	for _, p := range f.providers {
		wg.Add(1)
		go func(p models.Provider) {
			defer wg.Done()
			_, err := repo.CallNext(ctx, f.service.ID, p.ID, time.Now())
			errs <- err
		}(p)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyServing):
			conflicts++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 || conflicts != len(f.providers)-1 {
		t.Fatalf("expected exactly one call to win, got %d ok / %d conflicts", ok, conflicts)
	}

	var serving int64
	db.Model(&models.QueueTicket{}).Where("status = ?", "serving").Count(&serving)
	if serving != 1 {
		t.Fatalf("expected one serving ticket, got %d", serving)
	}
}

func TestApplyTransitionIsConditional(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db, 1)
	repo := NewTicketGormRepository(db)
	ctx := context.Background()

	createWaiting(t, repo, f.service.ID, "A", 0, time.Now().Add(-time.Minute))
	called, err := repo.CallNext(ctx, f.service.ID, f.providers[0].ID, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	done := *called
	if err := domain.Complete(&done, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := repo.ApplyTransition(ctx, &done, domain.StatusServing); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// A second writer that still believes the ticket is serving loses.
	stale := *called
	if err := domain.Skip(&stale, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := repo.ApplyTransition(ctx, &stale, domain.StatusServing); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	stored, err := repo.GetTicketByNumber(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", stored.Status)
	}

	start := time.Now().Add(-time.Hour)
	closed, err := repo.ListClosedByProvider(ctx, f.providers[0].ID, start, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 {
		t.Fatalf("expected one closed ticket, got %d", len(closed))
	}
}

func TestOneServingIndexRejectsSecondServingTicket(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db, 1)
	repo := NewTicketGormRepository(db)
	ctx := context.Background()

	createWaiting(t, repo, f.service.ID, "A", 0, time.Now().Add(-2*time.Minute))
	b := createWaiting(t, repo, f.service.ID, "B", 0, time.Now().Add(-time.Minute))
	if _, err := repo.CallNext(ctx, f.service.ID, f.providers[0].ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	// Bypass the application checks and force B into serving.
	forced := *b
	if err := domain.Serve(&forced, f.providers[0].ID, time.Now()); err != nil {
		t.Fatal(err)
	}
	err := repo.ApplyTransition(ctx, &forced, domain.StatusWaiting)
	if !errors.Is(err, domain.ErrAlreadyServing) {
		t.Fatalf("expected the index to reject a second serving ticket, got %v", err)
	}
}

func TestDeletingOrganizationCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketGormRepository(db)
	f := seed(t, db, 2)

	createWaiting(t, repo, f.service.ID, "Q202610150001", 0, time.Now())
	called := createWaiting(t, repo, f.service.ID, "Q202610150002", 0, time.Now())
	pid := f.providers[0].ID
	if err := db.Model(&models.QueueTicket{}).Where("id = ?", called.ID).Update("provider_id", pid).Error; err != nil {
		t.Fatal(err)
	}

	if err := db.Delete(&models.Organization{}, f.service.OrganizationID).Error; err != nil {
		t.Fatalf("delete organization: %v", err)
	}

	count := func(model any) int64 {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		return n
	}

	if n := count(&models.Service{}); n != 0 {
		t.Fatalf("expected services removed, %d left", n)
	}
	if n := count(&models.QueueTicket{}); n != 0 {
		t.Fatalf("expected tickets removed, %d left", n)
	}
	if n := count(&models.Provider{}); n != 0 {
		t.Fatalf("expected provider assignments removed, %d left", n)
	}
}

func TestDeletingServiceCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketGormRepository(db)
	f := seed(t, db, 1)

	other := models.Service{OrganizationID: f.service.OrganizationID, Name: "Pharmacy", Active: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatal(err)
	}
	createWaiting(t, repo, f.service.ID, "Q202610150001", 0, time.Now())
	createWaiting(t, repo, other.ID, "Q202610150002", 0, time.Now())

	if err := db.Delete(&models.Service{}, f.service.ID).Error; err != nil {
		t.Fatalf("delete service: %v", err)
	}

	var tickets []models.QueueTicket
	if err := db.Find(&tickets).Error; err != nil {
		t.Fatal(err)
	}
	if len(tickets) != 1 || tickets[0].ServiceID != other.ID {
		t.Fatalf("expected only the other service's ticket, got %+v", tickets)
	}

	var providers int64
	db.Model(&models.Provider{}).Count(&providers)
	if providers != 0 {
		t.Fatalf("expected provider assignment removed, %d left", providers)
	}

	var orgs int64
	db.Model(&models.Organization{}).Count(&orgs)
	if orgs != 1 {
		t.Fatal("organization must survive a service delete")
	}
}
