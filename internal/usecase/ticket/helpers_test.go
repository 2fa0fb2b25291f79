package ticket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BruksfildServices01/smartq/internal/domain/ticket/tickettest"
	"github.com/BruksfildServices01/smartq/internal/models"
)

const (
	testServiceID = 1
	otherService  = 2
	staffUserID   = 10
	providerID    = 100
)

var base = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func newRepo() *tickettest.Repository {
	repo := tickettest.New()
	repo.AddService(models.Service{ID: testServiceID, Name: "Consultation", CounterLabel: "Room 3", EstimatedServiceMinutes: 7, Active: true})
	repo.AddService(models.Service{ID: otherService, Name: "Pharmacy", CounterLabel: "Desk 1", EstimatedServiceMinutes: 5, Active: true})
	repo.AddService(models.Service{ID: 3, Name: "Closed", Active: false})
	repo.AddProvider(models.Provider{ID: providerID, UserID: staffUserID, ServiceID: testServiceID, DisplayName: "Alice", Active: true})
	repo.AddProvider(models.Provider{ID: 101, UserID: 11, ServiceID: testServiceID, DisplayName: "Bob", Active: false})
	return repo
}

func addWaiting(repo *tickettest.Repository, service uint, number string, priority int, created time.Time) models.QueueTicket {
	return repo.AddTicket(models.QueueTicket{
		QueueNumber: number,
		ServiceID:   service,
		ClientPhone: "+250788000001",
		Status:      "waiting",
		Priority:    priority,
		CreatedAt:   created,
	})
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	phone []string
	fail  bool
}

func (n *fakeNotifier) Send(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("gateway down")
	}
	n.phone = append(n.phone, phone)
	n.sent = append(n.sent, message)
	return nil
}
