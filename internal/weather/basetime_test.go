package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestUltraShortBase(t *testing.T) {
	date, tm := ultraShortBase(at(14, 50))
	assert.Equal(t, "20260901", date)
	assert.Equal(t, "1400", tm)

	// Before the 45-minute mark the current issue is not out yet.
	date, tm = ultraShortBase(at(14, 10))
	assert.Equal(t, "20260901", date)
	assert.Equal(t, "1300", tm)

	// Midnight rolls back to yesterday's last hour.
	date, tm = ultraShortBase(at(0, 10))
	assert.Equal(t, "20260831", date)
	assert.Equal(t, "2300", tm)
}

func TestShortBase(t *testing.T) {
	date, tm := shortBase(at(14, 0))
	assert.Equal(t, "20260901", date)
	assert.Equal(t, "1400", tm)

	date, tm = shortBase(at(13, 59))
	assert.Equal(t, "20260901", date)
	assert.Equal(t, "1100", tm)

	// Before the first issue of the day, use yesterday's 23:00.
	date, tm = shortBase(at(1, 30))
	assert.Equal(t, "20260831", date)
	assert.Equal(t, "2300", tm)
}

func TestMidBase(t *testing.T) {
	tmFc, start := midBase(at(3, 0))
	assert.Equal(t, "202608311800", tmFc)
	assert.Equal(t, 5, start)

	tmFc, start = midBase(at(10, 0))
	assert.Equal(t, "202609010600", tmFc)
	assert.Equal(t, 4, start)

	tmFc, start = midBase(at(20, 0))
	assert.Equal(t, "202609011800", tmFc)
	assert.Equal(t, 5, start)
}
