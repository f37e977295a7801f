package weather

import (
	"fmt"
	"time"
)

// shortRangeIssueHours are the hours at which the short-range forecast is
// published each day.
var shortRangeIssueHours = []int{2, 5, 8, 11, 14, 17, 20, 23}

// ultraShortBase returns the issue slot to query for the ultra-short feed.
// Issues become available around 45 minutes past the hour, so earlier
// minutes fall back one hour.
func ultraShortBase(now time.Time) (date, baseTime string) {
	if now.Minute() < 45 {
		now = now.Add(-time.Hour)
	}
	return now.Format("20060102"), fmt.Sprintf("%02d00", now.Hour())
}

// shortBase returns the most recent short-range issue at or before now,
// rolling back to yesterday's 23:00 issue in the small hours.
func shortBase(now time.Time) (date, baseTime string) {
	hour := now.Hour()
	for i := len(shortRangeIssueHours) - 1; i >= 0; i-- {
		if shortRangeIssueHours[i] <= hour {
			return now.Format("20060102"), fmt.Sprintf("%02d00", shortRangeIssueHours[i])
		}
	}
	yesterday := now.AddDate(0, 0, -1)
	return yesterday.Format("20060102"), "2300"
}

// midBase returns the mid-range issue timestamp (published 06:00 and 18:00)
// and the first day offset that issue covers.
func midBase(now time.Time) (tmFc string, startDay int) {
	switch {
	case now.Hour() < 6:
		yesterday := now.AddDate(0, 0, -1)
		return yesterday.Format("20060102") + "1800", 5
	case now.Hour() < 18:
		return now.Format("20060102") + "0600", 4
	default:
		return now.Format("20060102") + "1800", 5
	}
}
