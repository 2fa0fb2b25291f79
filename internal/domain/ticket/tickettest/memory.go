// Package tickettest provides an in-memory ticket.Repository for tests.
package tickettest

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type Repository struct {
	mu sync.Mutex

	services  map[uint]models.Service
	providers map[uint]models.Provider
	tickets   []models.QueueTicket
	sequences map[string]int64
	nextID    uint

	// FailCreate, when set, is returned by CreateTicket before storing.
	FailCreate func(t *models.QueueTicket) error
	// FailCountAhead, when set, is returned by CountAhead.
	FailCountAhead error
}

func New() *Repository {
	return &Repository{
		services:  map[uint]models.Service{},
		providers: map[uint]models.Provider{},
		sequences: map[string]int64{},
	}
}

// -------- fixtures --------

func (r *Repository) AddService(s models.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.ID] = s
}

func (r *Repository) AddProvider(p models.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.UserID] = p
}

// AddTicket stores t as-is, assigning an id when missing.
func (r *Repository) AddTicket(t models.QueueTicket) models.QueueTicket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if t.ID == 0 {
		t.ID = r.nextID
	}
	r.tickets = append(r.tickets, t)
	return t
}

func (r *Repository) Tickets() []models.QueueTicket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.QueueTicket(nil), r.tickets...)
}

func (r *Repository) Ticket(id uint) (models.QueueTicket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return models.QueueTicket{}, false
}

// -------- ticket.Repository --------

func (r *Repository) GetService(_ context.Context, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok {
		return nil, ticket.ErrServiceNotFound
	}
	return &s, nil
}

func (r *Repository) GetActiveService(_ context.Context, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok || !s.Active {
		return nil, ticket.ErrServiceNotFound
	}
	return &s, nil
}

func (r *Repository) GetProviderByUser(_ context.Context, userID uint) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[userID]
	if !ok {
		return nil, ticket.ErrProviderNotFound
	}
	return &p, nil
}

func (r *Repository) CountWaiting(_ context.Context, serviceID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		if t.ServiceID == serviceID && t.Status == string(ticket.StatusWaiting) {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountAhead(_ context.Context, t *models.QueueTicket) (int64, error) {
	if r.FailCountAhead != nil {
		return 0, r.FailCountAhead
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return ticket.CountAhead(t, r.tickets), nil
}

func (r *Repository) ListWaiting(_ context.Context, serviceID uint) ([]models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waitingLocked(serviceID), nil
}

func (r *Repository) waitingLocked(serviceID uint) []models.QueueTicket {
	var out []models.QueueTicket
	for _, t := range r.tickets {
		if t.ServiceID == serviceID && t.Status == string(ticket.StatusWaiting) {
			out = append(out, t)
		}
	}
	ticket.SortQueue(out)
	return out
}

func (r *Repository) GetServing(_ context.Context, serviceID uint) (*models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ServiceID == serviceID && t.Status == string(ticket.StatusServing) {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *Repository) GetTicketByNumber(_ context.Context, queueNumber string) (*models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.QueueNumber == queueNumber {
			return &t, nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

func (r *Repository) GetTicketForService(_ context.Context, ticketID, serviceID uint) (*models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == ticketID && t.ServiceID == serviceID {
			return &t, nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

func (r *Repository) NextSequence(_ context.Context, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[day]++
	return r.sequences[day], nil
}

func (r *Repository) CreateTicket(_ context.Context, t *models.QueueTicket) error {
	if r.FailCreate != nil {
		if err := r.FailCreate(t); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.tickets {
		if o.QueueNumber == t.QueueNumber {
			return ticket.ErrDuplicateQueueNumber
		}
	}
	r.nextID++
	t.ID = r.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.tickets = append(r.tickets, *t)
	return nil
}

func (r *Repository) CallNext(_ context.Context, serviceID, providerID uint, now time.Time) (*models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.ServiceID == serviceID && t.Status == string(ticket.StatusServing) {
			return nil, ticket.ErrAlreadyServing
		}
	}

	queue := r.waitingLocked(serviceID)
	if len(queue) == 0 {
		return nil, ticket.ErrQueueEmpty
	}

	next := queue[0]
	if err := ticket.Serve(&next, providerID, now); err != nil {
		return nil, err
	}
	r.replaceLocked(next)
	return &next, nil
}

func (r *Repository) ApplyTransition(_ context.Context, t *models.QueueTicket, from ticket.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.tickets {
		if o.ID != t.ID {
			continue
		}
		if o.Status != string(from) {
			return ticket.ErrInvalidState
		}
		r.replaceLocked(*t)
		return nil
	}
	return ticket.ErrTicketNotFound
}

func (r *Repository) replaceLocked(t models.QueueTicket) {
	for i := range r.tickets {
		if r.tickets[i].ID == t.ID {
			r.tickets[i] = t
			return
		}
	}
}

func (r *Repository) ListClosedByProvider(_ context.Context, providerID uint, start, end time.Time) ([]models.QueueTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.QueueTicket
	for _, t := range r.tickets {
		if t.ProviderID == nil || *t.ProviderID != providerID || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.Before(start) || !t.CompletedAt.Before(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

var _ ticket.Repository = (*Repository)(nil)
