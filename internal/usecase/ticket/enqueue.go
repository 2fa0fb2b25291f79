package ticket

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/BruksfildServices01/smartq/internal/audit"
	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
	"github.com/BruksfildServices01/smartq/internal/notify"
	"github.com/BruksfildServices01/smartq/internal/validators"
)

const (
	maxQueueNumberAttempts = 5
	notifyTimeout          = 5 * time.Second
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type EnqueueInput struct {
	ServiceID uint
	Phone     string
	Priority  int
}

type EnqueueResult struct {
	Ticket        *models.QueueTicket
	Service       *models.Service
	Position      int
	EstimatedWait int
	Notified      bool
}

// ======================================================
// USE CASE
// ======================================================

type EnqueueTicket struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
	now      clock
}

func NewEnqueueTicket(
	repo domain.Repository,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	tz string,
) *EnqueueTicket {
	return &EnqueueTicket{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		now:      clockIn(tz),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *EnqueueTicket) Execute(
	ctx context.Context,
	in EnqueueInput,
) (*EnqueueResult, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	phone := validators.NormalizePhone(in.Phone)
	if !validators.IsValidPhone(phone) {
		return nil, domain.ErrInvalidPhone
	}
	if in.Priority < 0 || in.Priority > domain.MaxPriority {
		return nil, domain.ErrInvalidPriority
	}

	svc, err := uc.repo.GetActiveService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Estimate from the queue as it stands before insert
	// --------------------------------------------------
	waiting, err := uc.repo.CountWaiting(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	estimate := domain.EstimateWait(waiting, svc)

	// --------------------------------------------------
	// Insert with a fresh queue number
	// --------------------------------------------------
	now := uc.now()
	t, err := uc.insert(ctx, svc.ID, phone, in.Priority, estimate, now)
	if err != nil {
		return nil, err
	}

	// The ticket is committed; a failed count falls back to the pre-insert
	// queue length instead of failing the request.
	ahead, err := uc.repo.CountAhead(ctx, t)
	if err != nil {
		log.Printf("enqueue: position for %s unavailable: %v", t.QueueNumber, err)
		ahead = waiting
	}
	position := domain.Position(t, ahead)

	// --------------------------------------------------
	// Notification never fails the enqueue
	// --------------------------------------------------
	notified := uc.notify(ctx, t, svc, position, estimate)

	uc.audit.Dispatch(audit.Event{
		Action:   "ticket_created",
		Entity:   "queue_ticket",
		EntityID: &t.ID,
		Metadata: map[string]any{
			"service_id":   svc.ID,
			"queue_number": t.QueueNumber,
			"priority":     t.Priority,
		},
	})

	return &EnqueueResult{
		Ticket:        t,
		Service:       svc,
		Position:      position,
		EstimatedWait: estimate,
		Notified:      notified,
	}, nil
}

func (uc *EnqueueTicket) insert(
	ctx context.Context,
	serviceID uint,
	phone string,
	priority int,
	estimate int,
	now time.Time,
) (*models.QueueTicket, error) {

	day := domain.DayKey(now)

	for attempt := 0; attempt < maxQueueNumberAttempts; attempt++ {
		seq, err := uc.repo.NextSequence(ctx, day)
		if err != nil {
			return nil, err
		}

		t := &models.QueueTicket{
			QueueNumber:          domain.FormatQueueNumber(now, seq),
			ServiceID:            serviceID,
			ClientPhone:          phone,
			Status:               string(domain.InitialStatus()),
			Priority:             priority,
			CreatedAt:            now,
			EstimatedWaitMinutes: estimate,
		}

		err = uc.repo.CreateTicket(ctx, t)
		if errors.Is(err, domain.ErrDuplicateQueueNumber) {
			log.Printf("enqueue: queue number %s taken, retrying", t.QueueNumber)
			continue
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	return nil, domain.ErrQueueNumberExhausted
}

func (uc *EnqueueTicket) notify(
	ctx context.Context,
	t *models.QueueTicket,
	svc *models.Service,
	position int,
	estimate int,
) bool {
	if uc.notifier == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	msg := notify.TicketMessage(t.QueueNumber, svc.Name, svc.CounterLabel, position, estimate)
	if err := uc.notifier.Send(ctx, t.ClientPhone, msg); err != nil {
		log.Printf("enqueue: sms for %s failed: %v", t.QueueNumber, err)
		return false
	}
	return true
}
