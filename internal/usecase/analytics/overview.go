package analytics

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/smartq/internal/domain/analytics"
	"github.com/BruksfildServices01/smartq/internal/models"
	"github.com/BruksfildServices01/smartq/internal/timezone"
)

type clock func() time.Time

func clockIn(tz string) clock {
	loc := timezone.Location(tz)
	return func() time.Time { return time.Now().In(loc) }
}

// ======================================================
// OVERVIEW
// ======================================================

type GetOverview struct {
	repo domain.Repository
	now  clock
}

func NewGetOverview(repo domain.Repository, tz string) *GetOverview {
	return &GetOverview{repo: repo, now: clockIn(tz)}
}

func (uc *GetOverview) Execute(ctx context.Context) (*domain.Overview, error) {
	start, end := timezone.DayBounds(uc.now())

	today, err := uc.repo.ListTicketsCreated(ctx, start, end)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	orgs, err := uc.repo.CountOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.CountActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := uc.repo.CountUsers(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	staff, err := uc.repo.CountUsers(ctx, models.RoleStaff)
	if err != nil {
		return nil, err
	}

	s := domain.Summarize(today)
	open := domain.FoldOpen(rows)

	return &domain.Overview{
		TotalTicketsToday:  s.Total,
		CompletedToday:     s.Completed,
		SkippedToday:       s.Skipped,
		ActiveNow:          open.TotalWaiting(),
		ServingNow:         open.TotalServing(),
		AverageWaitTime:    s.AvgWaitMinutes,
		TotalOrganizations: orgs,
		TotalServices:      services,
		TotalAdmins:        admins,
		TotalStaff:         staff,
	}, nil
}

// ======================================================
// PER SERVICE
// ======================================================

type ListServiceBreakdown struct {
	repo domain.Repository
	now  clock
}

func NewListServiceBreakdown(repo domain.Repository, tz string) *ListServiceBreakdown {
	return &ListServiceBreakdown{repo: repo, now: clockIn(tz)}
}

func (uc *ListServiceBreakdown) Execute(ctx context.Context) ([]domain.ServiceBreakdown, error) {
	return breakdownFor(ctx, uc.repo, uc.now())
}

func breakdownFor(ctx context.Context, repo domain.Repository, now time.Time) ([]domain.ServiceBreakdown, error) {
	start, end := timezone.DayBounds(now)

	services, err := repo.ListActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	today, err := repo.ListTicketsCreated(ctx, start, end)
	if err != nil {
		return nil, err
	}
	rows, err := repo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return domain.Breakdown(services, today, domain.FoldOpen(rows)), nil
}
