package service

import "time"

// periodStart is the most recent daily reset at or before now. Periods run
// from resetHour:00 UTC to the same time the next day.
func periodStart(now time.Time, resetHour int) time.Time {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)
	if now.Before(start) {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// nextReset is the first daily reset strictly after now
func nextReset(now time.Time, resetHour int) time.Time {
	return periodStart(now, resetHour).AddDate(0, 0, 1)
}
