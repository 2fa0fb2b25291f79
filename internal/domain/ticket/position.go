package ticket

import (
	"sort"

	"github.com/BruksfildServices01/smartq/internal/models"
)

// Precedes reports whether a is called before b when both wait in the same
// service: higher priority first, then earlier creation, then lower id.
func Precedes(a, b *models.QueueTicket) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Position is 1 + the number of waiting tickets ahead of t. Tickets that are
// not waiting have no position and report 0.
func Position(t *models.QueueTicket, ahead int64) int {
	if Status(t.Status) != StatusWaiting {
		return 0
	}
	return int(ahead) + 1
}

// CountAhead counts the tickets in pool that wait in t's service and precede t.
func CountAhead(t *models.QueueTicket, pool []models.QueueTicket) int64 {
	var n int64
	for i := range pool {
		o := &pool[i]
		if o.ID == t.ID || o.ServiceID != t.ServiceID || Status(o.Status) != StatusWaiting {
			continue
		}
		if Precedes(o, t) {
			n++
		}
	}
	return n
}

// SortQueue orders tickets in call order.
func SortQueue(ts []models.QueueTicket) {
	sort.SliceStable(ts, func(i, j int) bool {
		return Precedes(&ts[i], &ts[j])
	})
}
