package ticket

import (
	"fmt"
	"time"
)

const (
	queueNumberPrefix = "Q"
	dayLayout         = "20060102"
)

// DayKey is the per-day sequence key for t, in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// FormatQueueNumber renders the human-readable number, e.g. Q202610150042.
func FormatQueueNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", queueNumberPrefix, DayKey(day), seq)
}
