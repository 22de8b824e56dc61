package playcount

import "time"

// WeekOf derives the 1-based week-of-year bucket from a calendar date:
// ceil(dayOfYear / 7), in t's location. Jan 1–7 is week 1. Calendar
// arithmetic only, so short or long days around DST transitions bucket
// the same as any other day.
func WeekOf(t time.Time) int {
	return (t.YearDay() + 6) / 7
}

// CurrentWeek is WeekOf(now).
func CurrentWeek() int {
	return WeekOf(time.Now())
}
