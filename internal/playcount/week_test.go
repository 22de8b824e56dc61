package playcount

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"jan 1", date(2026, time.January, 1), 1},
		{"jan 7", date(2026, time.January, 7), 1},
		{"jan 8", date(2026, time.January, 8), 2},
		{"jan 14", date(2026, time.January, 14), 2},
		{"jan 15", date(2026, time.January, 15), 3},
		{"mid year", date(2026, time.July, 1), 26},
		{"dec 31", date(2026, time.December, 31), 53},
		{"dec 31 leap year", date(2024, time.December, 31), 53},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekOf(tc.in); got != tc.want {
				t.Errorf("WeekOf(%s) = %d, want %d", tc.in.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestWeekOfStableWithinDay(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	want := WeekOf(day)
	for _, h := range []int{0, 6, 12, 23} {
		if got := WeekOf(day.Add(time.Duration(h) * time.Hour)); got != want {
			t.Fatalf("WeekOf at hour %d = %d, want %d", h, got, want)
		}
	}
}

func TestWeekOfStableAfterDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("zone data unavailable: %v", err)
	}
	// 2026-03-26 is past the spring-forward; the wall-clock day is still
	// one calendar day regardless of the hour lost earlier in March.
	early := time.Date(2026, time.March, 26, 0, 30, 0, 0, loc)
	noon := time.Date(2026, time.March, 26, 12, 0, 0, 0, loc)
	if got, want := WeekOf(early), WeekOf(noon); got != want {
		t.Fatalf("WeekOf differs within one day: 00:30 = %d, 12:00 = %d", got, want)
	}
	if got := WeekOf(noon); got != 13 {
		t.Fatalf("WeekOf(2026-03-26) = %d, want 13", got)
	}
}

func TestWeekOfNeverDecreasesWithinYear(t *testing.T) {
	prev := 0
	for d := date(2026, time.January, 1); d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		w := WeekOf(d)
		if w < prev {
			t.Fatalf("week decreased at %s: %d -> %d", d.Format("2006-01-02"), prev, w)
		}
		prev = w
	}
}
