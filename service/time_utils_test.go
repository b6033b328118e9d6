package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodStart(t *testing.T) {
	const resetHour = 12
	today := time.Date(2024, 3, 10, resetHour, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantNext  time.Time
	}{
		{"just before reset", today.Add(-time.Nanosecond), yesterday, today},
		{"exactly at reset", today, today, tomorrow},
		{"just after reset", today.Add(time.Nanosecond), today, tomorrow},
		{"just after midnight", time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC), yesterday, today},
		{"late evening", time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), today, tomorrow},
		{"non-UTC clock", today.Add(-time.Minute).In(time.FixedZone("UTC+5", 5*3600)), yesterday, today},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.wantStart.Equal(periodStart(tt.now, resetHour)), "start: got %v", periodStart(tt.now, resetHour))
			assert.True(t, tt.wantNext.Equal(nextReset(tt.now, resetHour)), "next: got %v", nextReset(tt.now, resetHour))
		})
	}
}

func TestPeriodStart_MidnightReset(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, now, periodStart(now, 0))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), nextReset(now, 0))

	// month boundary
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), periodStart(now.Add(-time.Second), 0))
}
