package ticket

import (
	"context"

	"github.com/BruksfildServices01/smartq/internal/audit"
	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type CallNextTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   clock
}

func NewCallNextTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CallNextTicket {
	return &CallNextTicket{
		repo:  repo,
		audit: audit,
		now:   clockIn(tz),
	}
}

func (uc *CallNextTicket) Execute(
	ctx context.Context,
	userID uint,
) (*models.QueueTicket, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	t, err := uc.repo.CallNext(ctx, provider.ServiceID, provider.ID, uc.now())
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "ticket_called",
		Entity:   "queue_ticket",
		EntityID: &t.ID,
		Metadata: map[string]any{
			"service_id":   t.ServiceID,
			"queue_number": t.QueueNumber,
		},
	})

	return t, nil
}
