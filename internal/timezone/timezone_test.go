package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBack(t *testing.T) {
	if Location("Not/AZone").String() != Location(DefaultTimezone).String() {
		t.Fatal("invalid zone should fall back to the default")
	}
	if Location("UTC") != time.UTC {
		t.Fatal("UTC should resolve to time.UTC")
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("CAT", 2*60*60)
	now := time.Date(2026, 3, 14, 23, 59, 0, 0, loc)

	start, end := DayBounds(now)

	if !start.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected end %s", end)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-01-31", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if d.Day() != 31 || d.Hour() != 0 {
		t.Fatalf("unexpected day %s", d)
	}
	if _, err := ParseDay("31/01/2026", time.UTC); err == nil {
		t.Fatal("expected parse error")
	}
}
