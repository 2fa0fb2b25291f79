package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type TicketStatus struct {
	Ticket   *models.QueueTicket
	Service  *models.Service
	Position int
}

type GetTicketStatus struct {
	repo domain.Repository
}

func NewGetTicketStatus(repo domain.Repository) *GetTicketStatus {
	return &GetTicketStatus{repo: repo}
}

func (uc *GetTicketStatus) Execute(
	ctx context.Context,
	queueNumber string,
) (*TicketStatus, error) {

	t, err := uc.repo.GetTicketByNumber(ctx, queueNumber)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, t.ServiceID)
	if err != nil {
		return nil, err
	}

	var position int
	if domain.Status(t.Status) == domain.StatusWaiting {
		ahead, err := uc.repo.CountAhead(ctx, t)
		if err != nil {
			return nil, err
		}
		position = domain.Position(t, ahead)
	}

	return &TicketStatus{
		Ticket:   t,
		Service:  svc,
		Position: position,
	}, nil
}
