package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/smartq/internal/domain/analytics"
	"github.com/BruksfildServices01/smartq/internal/models"
)

var now = time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)

type fakeRepo struct {
	services []domain.ServiceRef
	tickets  []models.QueueTicket
	open     []domain.StatusCount
	users    map[string]int64
	orgs     int64

	upserted []models.AnalyticsSnapshot
	filter   domain.SnapshotFilter
}

func (r *fakeRepo) ListTicketsCreated(_ context.Context, start, end time.Time) ([]models.QueueTicket, error) {
	var out []models.QueueTicket
	for _, t := range r.tickets {
		if !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountOpen(context.Context) ([]domain.StatusCount, error) { return r.open, nil }

func (r *fakeRepo) ListActiveServices(context.Context) ([]domain.ServiceRef, error) {
	return r.services, nil
}

func (r *fakeRepo) CountOrganizations(context.Context) (int64, error) { return r.orgs, nil }

func (r *fakeRepo) CountActiveServices(context.Context) (int64, error) {
	return int64(len(r.services)), nil
}

func (r *fakeRepo) CountUsers(_ context.Context, role string) (int64, error) {
	return r.users[role], nil
}

func (r *fakeRepo) UpsertSnapshots(_ context.Context, snaps []models.AnalyticsSnapshot) error {
	r.upserted = append(r.upserted, snaps...)
	return nil
}

func (r *fakeRepo) ListSnapshots(_ context.Context, f domain.SnapshotFilter) ([]models.AnalyticsSnapshot, error) {
	r.filter = f
	return r.upserted, nil
}

type fakeArchiver struct {
	key  string
	body []byte
	err  error
}

func (a *fakeArchiver) Put(_ context.Context, key string, body []byte) error {
	if a.err != nil {
		return a.err
	}
	a.key = key
	a.body = body
	return nil
}

func served(service uint, status string, created time.Time, waitMin, serveMin int) models.QueueTicket {
	start := created.Add(time.Duration(waitMin) * time.Minute)
	end := start.Add(time.Duration(serveMin) * time.Minute)
	return models.QueueTicket{
		ServiceID:        service,
		Status:           status,
		CreatedAt:        created,
		ServingStartedAt: &start,
		CompletedAt:      &end,
	}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: []domain.ServiceRef{
			{ID: 1, Name: "Consultation", OrganizationID: 7, OrganizationName: "Kigali Clinic"},
			{ID: 2, Name: "Accounts", OrganizationID: 8, OrganizationName: "BK Remera"},
		},
		tickets: []models.QueueTicket{
			served(1, "completed", now.Add(-3*time.Hour), 12, 5),
			served(1, "completed", now.Add(-2*time.Hour), 8, 7),
			{ServiceID: 2, Status: "skipped", CreatedAt: now.Add(-time.Hour)},
			{ServiceID: 2, Status: "waiting", CreatedAt: now.Add(-10 * time.Minute)},
			served(1, "completed", now.Add(-30*time.Hour), 100, 100),
		},
		open: []domain.StatusCount{
			{ServiceID: 2, Status: "waiting", Count: 1},
			{ServiceID: 1, Status: "serving", Count: 1},
		},
		users: map[string]int64{models.RoleAdmin: 1, models.RoleStaff: 4},
		orgs:  2,
	}
}

func TestOverview(t *testing.T) {
	uc := NewGetOverview(newFakeRepo(), "UTC")
	uc.now = func() time.Time { return now }

	o, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if o.TotalTicketsToday != 4 || o.CompletedToday != 2 || o.SkippedToday != 1 {
		t.Fatalf("unexpected counts %+v", o)
	}
	if o.ActiveNow != 1 || o.ServingNow != 1 {
		t.Fatalf("unexpected open counts %+v", o)
	}
	if o.AverageWaitTime != 10 {
		t.Fatalf("expected average wait 10, got %v", o.AverageWaitTime)
	}
	if o.TotalOrganizations != 2 || o.TotalServices != 2 || o.TotalAdmins != 1 || o.TotalStaff != 4 {
		t.Fatalf("unexpected totals %+v", o)
	}
}

func TestServiceBreakdown(t *testing.T) {
	uc := NewListServiceBreakdown(newFakeRepo(), "UTC")
	uc.now = func() time.Time { return now }

	rows, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Organization != "Kigali Clinic" || rows[0].Completed != 2 || rows[0].AverageServiceTime != 6 {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[1].TotalToday != 2 || rows[1].WaitingNow != 1 || rows[1].Skipped != 1 {
		t.Fatalf("unexpected row %+v", rows[1])
	}
}

func TestTakeSnapshotUpsertsAndArchives(t *testing.T) {
	repo := newFakeRepo()
	arch := &fakeArchiver{}
	uc := NewTakeSnapshot(repo, arch, "snapshots", "UTC")
	uc.now = func() time.Time { return now }

	res, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(repo.upserted) != 2 {
		t.Fatalf("expected 2 upserted rows, got %d", len(repo.upserted))
	}
	if !res.Archived || res.ArchiveKey != "snapshots/2026-10-15.json" || arch.key != res.ArchiveKey {
		t.Fatalf("unexpected archive result %+v (key %s)", res, arch.key)
	}

	var doc struct {
		Day       string                     `json:"day"`
		Snapshots []models.AnalyticsSnapshot `json:"snapshots"`
	}
	if err := json.Unmarshal(arch.body, &doc); err != nil {
		t.Fatalf("archive body: %v", err)
	}
	if doc.Day != "2026-10-15" || len(doc.Snapshots) != 2 {
		t.Fatalf("unexpected archive document %+v", doc)
	}
}

func TestTakeSnapshotKeepsRowsWhenArchiveFails(t *testing.T) {
	repo := newFakeRepo()
	uc := NewTakeSnapshot(repo, &fakeArchiver{err: errors.New("s3 down")}, "snapshots", "UTC")
	uc.now = func() time.Time { return now }

	res, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("archive failure must not fail the snapshot: %v", err)
	}
	if res.Archived {
		t.Fatal("archived should be false")
	}
	if len(repo.upserted) != 2 {
		t.Fatal("rows should still be stored")
	}
}

func TestTakeSnapshotWithoutArchiver(t *testing.T) {
	repo := newFakeRepo()
	uc := NewTakeSnapshot(repo, nil, "snapshots", "UTC")
	uc.now = func() time.Time { return now }

	res, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Archived || res.ArchiveKey != "" {
		t.Fatalf("unexpected archive result %+v", res)
	}
}

func TestListSnapshotsPassesFilter(t *testing.T) {
	repo := newFakeRepo()
	f := domain.SnapshotFilter{From: now.AddDate(0, 0, -7), To: now, ServiceID: 1}

	if _, err := NewListSnapshots(repo).Execute(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if repo.filter != f {
		t.Fatalf("filter not forwarded: %+v", repo.filter)
	}
}

func TestRunSnapshotsUntilCancelled(t *testing.T) {
	repo := newFakeRepo()
	uc := NewTakeSnapshot(repo, nil, "snapshots", "UTC")
	uc.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.Run(ctx, time.Hour)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if len(repo.upserted) != 2 {
		t.Fatalf("expected one immediate snapshot of 2 rows, got %d", len(repo.upserted))
	}
}
