package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smartq/internal/models"
)

type Repository interface {
	// -------- Service / Provider --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	GetActiveService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	GetProviderByUser(
		ctx context.Context,
		userID uint,
	) (*models.Provider, error)

	// -------- Queue reads --------
	CountWaiting(
		ctx context.Context,
		serviceID uint,
	) (int64, error)

	// CountAhead counts waiting tickets of the same service that precede t.
	CountAhead(
		ctx context.Context,
		t *models.QueueTicket,
	) (int64, error)

	ListWaiting(
		ctx context.Context,
		serviceID uint,
	) ([]models.QueueTicket, error)

	// GetServing returns nil, nil when the service has no serving ticket.
	GetServing(
		ctx context.Context,
		serviceID uint,
	) (*models.QueueTicket, error)

	GetTicketByNumber(
		ctx context.Context,
		queueNumber string,
	) (*models.QueueTicket, error)

	GetTicketForService(
		ctx context.Context,
		ticketID uint,
		serviceID uint,
	) (*models.QueueTicket, error)

	// -------- Queue writes --------
	NextSequence(
		ctx context.Context,
		day string,
	) (int64, error)

	CreateTicket(
		ctx context.Context,
		t *models.QueueTicket,
	) error

	// CallNext atomically moves the first waiting ticket of serviceID to
	// serving. It fails with ErrAlreadyServing or ErrQueueEmpty.
	CallNext(
		ctx context.Context,
		serviceID uint,
		providerID uint,
		now time.Time,
	) (*models.QueueTicket, error)

	// ApplyTransition persists t's status and timestamps only if the stored
	// status still equals from; otherwise ErrInvalidState.
	ApplyTransition(
		ctx context.Context,
		t *models.QueueTicket,
		from Status,
	) error

	// -------- Stats --------
	ListClosedByProvider(
		ctx context.Context,
		providerID uint,
		start time.Time,
		end time.Time,
	) ([]models.QueueTicket, error)
}
