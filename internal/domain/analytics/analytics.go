package analytics

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smartq/internal/models"
)

type Overview struct {
	TotalTicketsToday  int64   `json:"total_tickets_today"`
	CompletedToday     int64   `json:"completed_today"`
	SkippedToday       int64   `json:"skipped_today"`
	ActiveNow          int64   `json:"active_now"`
	ServingNow         int64   `json:"serving_now"`
	AverageWaitTime    float64 `json:"average_wait_time"`
	TotalOrganizations int64   `json:"total_organizations"`
	TotalServices      int64   `json:"total_services"`
	TotalAdmins        int64   `json:"total_admins"`
	TotalStaff         int64   `json:"total_staff"`
}

type ServiceBreakdown struct {
	ServiceID          uint    `json:"service_id"`
	ServiceName        string  `json:"service_name"`
	OrganizationID     uint    `json:"organization_id"`
	Organization       string  `json:"organization"`
	TotalToday         int64   `json:"total_today"`
	Completed          int64   `json:"completed"`
	Skipped            int64   `json:"skipped"`
	WaitingNow         int64   `json:"waiting_now"`
	AverageWaitTime    float64 `json:"average_wait_time"`
	AverageServiceTime float64 `json:"average_service_time"`
}

// ServiceRef is a service joined with its organization's name.
type ServiceRef struct {
	ID               uint
	Name             string
	OrganizationID   uint
	OrganizationName string
}

// StatusCount is one row of a GROUP BY service_id, status.
type StatusCount struct {
	ServiceID uint
	Status    string
	Count     int64
}

type SnapshotFilter struct {
	From      time.Time
	To        time.Time
	ServiceID uint
}

type Repository interface {
	ListTicketsCreated(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.QueueTicket, error)

	// CountOpen counts waiting and serving tickets per service, any day.
	CountOpen(
		ctx context.Context,
	) ([]StatusCount, error)

	ListActiveServices(
		ctx context.Context,
	) ([]ServiceRef, error)

	CountOrganizations(ctx context.Context) (int64, error)
	CountActiveServices(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context, role string) (int64, error)

	UpsertSnapshots(
		ctx context.Context,
		snaps []models.AnalyticsSnapshot,
	) error

	ListSnapshots(
		ctx context.Context,
		f SnapshotFilter,
	) ([]models.AnalyticsSnapshot, error)
}
