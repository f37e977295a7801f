package airquality

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"
)

// readingSource is the slice of the client the service depends on, kept
// narrow so tests can stub it.
type readingSource interface {
	stationReadings(ctx context.Context, stationName string) ([]stationRow, error)
	dustAdvisory(ctx context.Context, searchDate string) ([]AdvisoryItem, error)
	dustOutlook(ctx context.Context, searchDate string) ([]WeeklyDay, error)
}

// Service implements the station fallback and forecast-window assembly on
// top of the raw feeds.
type Service struct {
	source readingSource

	// Now and the outlook pacing delay are swappable in tests.
	Now          func() time.Time
	outlookDelay time.Duration
}

func NewService(client *Client) *Service {
	return &Service{
		source:       client,
		Now:          time.Now,
		outlookDelay: 200 * time.Millisecond,
	}
}

// Current tries the ranked stations in order and returns the first valid
// reading. A station that errors or has no usable row is skipped. When
// every station is exhausted the measurement-unavailable sentinel is
// returned; that is a normal outcome, not an error.
func (s *Service) Current(ctx context.Context, stations []string) (Reading, error) {
	now := s.Now()
	for _, name := range stations {
		rows, err := s.source.stationReadings(ctx, name)
		if err != nil {
			log.Printf("airquality: station %s unavailable: %v", name, err)
			continue
		}
		if r, ok := pickReading(rows, now); ok {
			r.StationName = name
			return r, nil
		}
	}
	return Unavailable(), nil
}

// pickReading selects the row whose timestamp matches now rounded to the
// hour; failing that, the closest-in-time row carrying both a pm10 and a
// pm25 value.
func pickReading(rows []stationRow, now time.Time) (Reading, bool) {
	exact := now.Format("2006-01-02 15:00")
	for _, row := range rows {
		if row.DataTime == exact {
			if r, ok := parseReading(row); ok {
				return r, true
			}
			break
		}
	}

	var best Reading
	bestDist := time.Duration(1<<63 - 1)
	found := false
	for _, row := range rows {
		r, ok := parseReading(row)
		if !ok {
			continue
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04", row.DataTime, now.Location())
		if err != nil {
			continue
		}
		d := now.Sub(ts)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = r
			found = true
		}
	}
	return best, found
}

// parseReading rejects rows with placeholder ("-") or missing pollutant
// values.
func parseReading(row stationRow) (Reading, bool) {
	pm10, err10 := strconv.ParseFloat(row.PM10Value, 64)
	pm25, err25 := strconv.ParseFloat(row.PM25Value, 64)
	if err10 != nil || err25 != nil {
		return Reading{}, false
	}
	r := Reading{
		DataTime:  row.DataTime,
		PM10Value: pm10,
		PM25Value: pm25,
		PM10Grade: -1,
		PM25Grade: -1,
	}
	if g, err := strconv.Atoi(row.PM10Grade); err == nil {
		r.PM10Grade = g
	}
	if g, err := strconv.Atoi(row.PM25Grade); err == nil {
		r.PM25Grade = g
	}
	return r, true
}

// FetchAdvisory pulls today's dust advisory announcements. The raw rows are
// what the rolling cache stores.
func (s *Service) FetchAdvisory(ctx context.Context) ([]AdvisoryItem, error) {
	return s.source.dustAdvisory(ctx, s.Now().Format("2006-01-02"))
}

// FetchWeeklyOutlook assembles the weekly window from three successive
// announcements, starting three days back. Later announcements overwrite
// earlier ones on overlapping dates. One failed query degrades the window
// instead of failing it, as long as at least one query produced data.
func (s *Service) FetchWeeklyOutlook(ctx context.Context) ([]WeeklyDay, error) {
	now := s.Now()
	byDate := map[string]string{}
	var lastErr error
	for i := 3; i >= 1; i-- {
		searchDate := now.AddDate(0, 0, -i).Format("2006-01-02")
		days, err := s.source.dustOutlook(ctx, searchDate)
		if err != nil {
			log.Printf("airquality: outlook for %s unavailable: %v", searchDate, err)
			lastErr = err
		} else {
			for _, d := range days {
				byDate[d.Date] = d.Blob
			}
		}
		if i > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.outlookDelay):
			}
		}
	}
	if len(byDate) == 0 {
		return nil, lastErr
	}

	out := make([]WeeklyDay, 0, len(byDate))
	for date, blob := range byDate {
		out = append(out, WeeklyDay{Date: date, Blob: blob})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
