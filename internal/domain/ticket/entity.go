package ticket

import (
	"time"

	"github.com/BruksfildServices01/smartq/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Serve moves a waiting ticket to serving on behalf of providerID.
func Serve(t *models.QueueTicket, providerID uint, now time.Time) error {
	if err := CanCall(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusServing)
	t.CalledAt = &now
	t.ServingStartedAt = &now
	t.ProviderID = &providerID
	return nil
}

func Complete(t *models.QueueTicket, now time.Time) error {
	if err := CanComplete(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusCompleted)
	t.CompletedAt = &now
	return nil
}

// Skip marks a no-show. CompletedAt is stamped so the ticket leaves the
// queue with a close time, but skipped tickets are excluded from service
// time averages.
func Skip(t *models.QueueTicket, now time.Time) error {
	if err := CanSkip(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusSkipped)
	t.CompletedAt = &now
	return nil
}

func Cancel(t *models.QueueTicket, now time.Time) error {
	if err := CanCancel(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusCancelled)
	t.CompletedAt = &now
	return nil
}
