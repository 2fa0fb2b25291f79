package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
	"github.com/BruksfildServices01/smartq/internal/timezone"
)

type StaffStats struct {
	ServedToday        int     `json:"served_today"`
	AverageServiceTime float64 `json:"average_service_time"`
	WaitingCount       int64   `json:"waiting_count"`
}

type GetStaffStats struct {
	repo domain.Repository
	now  clock
}

func NewGetStaffStats(repo domain.Repository, tz string) *GetStaffStats {
	return &GetStaffStats{repo: repo, now: clockIn(tz)}
}

func (uc *GetStaffStats) Execute(
	ctx context.Context,
	userID uint,
) (*StaffStats, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	start, end := timezone.DayBounds(uc.now())
	closed, err := uc.repo.ListClosedByProvider(ctx, provider.ID, start, end)
	if err != nil {
		return nil, err
	}

	var completed []models.QueueTicket
	for _, t := range closed {
		if domain.Status(t.Status) == domain.StatusCompleted {
			completed = append(completed, t)
		}
	}

	waiting, err := uc.repo.CountWaiting(ctx, provider.ServiceID)
	if err != nil {
		return nil, err
	}

	return &StaffStats{
		ServedToday:        len(completed),
		AverageServiceTime: domain.AverageServiceMinutes(completed),
		WaitingCount:       waiting,
	}, nil
}
