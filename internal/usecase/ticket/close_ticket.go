package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smartq/internal/audit"
	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

// closeTicket loads ticketID within the provider's service, applies act and
// persists it conditionally on the status it was loaded with.
func closeTicket(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	userID uint,
	ticketID uint,
	now time.Time,
	act func(*models.QueueTicket, time.Time) error,
	action string,
) (*models.QueueTicket, error) {

	provider, err := resolveProvider(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	t, err := repo.GetTicketForService(ctx, ticketID, provider.ServiceID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(t.Status)
	if err := act(t, now); err != nil {
		return nil, err
	}

	if err := repo.ApplyTransition(ctx, t, from); err != nil {
		return nil, err
	}

	dispatcher.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "queue_ticket",
		EntityID: &t.ID,
		Metadata: map[string]any{
			"service_id":   t.ServiceID,
			"queue_number": t.QueueNumber,
			"from":         string(from),
		},
	})

	return t, nil
}

type CompleteTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   clock
}

func NewCompleteTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CompleteTicket {
	return &CompleteTicket{repo: repo, audit: audit, now: clockIn(tz)}
}

func (uc *CompleteTicket) Execute(
	ctx context.Context,
	userID uint,
	ticketID uint,
) (*models.QueueTicket, error) {
	return closeTicket(ctx, uc.repo, uc.audit, userID, ticketID, uc.now(), domain.Complete, "ticket_completed")
}

type SkipTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   clock
}

func NewSkipTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *SkipTicket {
	return &SkipTicket{repo: repo, audit: audit, now: clockIn(tz)}
}

func (uc *SkipTicket) Execute(
	ctx context.Context,
	userID uint,
	ticketID uint,
) (*models.QueueTicket, error) {
	return closeTicket(ctx, uc.repo, uc.audit, userID, ticketID, uc.now(), domain.Skip, "ticket_skipped")
}
