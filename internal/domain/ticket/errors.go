package ticket

import "github.com/BruksfildServices01/smartq/internal/httperr"

var (
	ErrServiceNotFound  = httperr.ErrNotFound("service_not_found")
	ErrTicketNotFound   = httperr.ErrNotFound("ticket_not_found")
	ErrProviderNotFound = httperr.ErrNotFound("provider_not_found")
	ErrQueueEmpty       = httperr.ErrNotFound("queue_empty")

	ErrAlreadyServing = httperr.ErrConflict("already_serving")
	ErrInvalidState   = httperr.ErrConflict("invalid_state")

	ErrProviderInactive = httperr.ErrForbidden("provider_inactive")

	ErrInvalidPhone    = httperr.ErrBusiness("invalid_phone")
	ErrInvalidPriority = httperr.ErrBusiness("invalid_priority")

	// ErrDuplicateQueueNumber is returned by CreateTicket when the number
	// is already taken; enqueue retries with a fresh one.
	ErrDuplicateQueueNumber = httperr.ErrConflict("duplicate_queue_number")
	ErrQueueNumberExhausted = httperr.ErrConflict("queue_number_exhausted")
)
