package ticket

import (
	"time"

	"github.com/BruksfildServices01/smartq/internal/timezone"
)

type clock func() time.Time

func clockIn(tz string) clock {
	loc := timezone.Location(tz)
	return func() time.Time {
		// Postgres keeps microseconds; truncating keeps in-memory and
		// stored timestamps comparable.
		return time.Now().In(loc).Truncate(time.Microsecond)
	}
}
