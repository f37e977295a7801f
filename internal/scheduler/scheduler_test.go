package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(day, hour, min int) time.Time {
	return time.Date(2026, 9, day, hour, min, 0, 0, time.UTC)
}

func TestLastHourlySlot(t *testing.T) {
	assert.Equal(t, ts(1, 11, 30), lastHourlySlot(ts(1, 12, 0)))
	assert.Equal(t, ts(1, 11, 30), lastHourlySlot(ts(1, 17, 29)))
	assert.Equal(t, ts(1, 17, 30), lastHourlySlot(ts(1, 17, 30)))

	// Early morning reaches back to yesterday's 23:30 slot.
	assert.Equal(t, time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC), lastHourlySlot(ts(1, 4, 0)))
}

func TestMisfired(t *testing.T) {
	slot := ts(1, 11, 30)

	// Cache populated before the slot, slot missed recently: catch up.
	assert.True(t, misfired(ts(1, 5, 35), slot, ts(1, 12, 0)))

	// Cache already refreshed at or after the slot: nothing to do.
	assert.False(t, misfired(ts(1, 11, 31), slot, ts(1, 12, 0)))
	assert.False(t, misfired(slot, slot, ts(1, 12, 0)))

	// Slot too old: the next cron trigger is near anyway.
	assert.False(t, misfired(ts(1, 5, 35), slot, ts(1, 15, 0)))

	// Empty cache is warm-up's problem, not a misfire.
	assert.False(t, misfired(time.Time{}, slot, ts(1, 12, 0)))
}
