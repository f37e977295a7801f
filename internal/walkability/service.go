package walkability

import (
	"context"
	"log"
	"time"

	"github.com/ddui/walkability-api/internal/airquality"
	"github.com/ddui/walkability-api/internal/astro"
	"github.com/ddui/walkability-api/internal/cache"
	"github.com/ddui/walkability-api/internal/region"
	"github.com/ddui/walkability-api/internal/weather"
)

// The service consumes narrow slices of its collaborators so tests can
// stub them.
type weatherSource interface {
	Current(ctx context.Context, grid region.Grid) (weather.Snapshot, error)
	Hourly(ctx context.Context, grid region.Grid, hours int) ([]weather.Snapshot, error)
	Weekly(ctx context.Context, grid region.Grid, midRegionID string, days int) ([]weather.DaySummary, error)
}

type airSource interface {
	Current(ctx context.Context, stations []string) (airquality.Reading, error)
}

type airCaches interface {
	HourlyAdvisory(ctx context.Context) (cache.HourlyPayload, error)
	WeeklyOutlook(ctx context.Context) (cache.WeeklyPayload, error)
}

type sunSource interface {
	Lookup(ctx context.Context, lat, lon float64, date time.Time) (astro.SunTimes, error)
}

// Service assembles forecasts for a location and scores them. It is the
// only layer that talks to both the acquisition clients and the rolling
// caches; the engine underneath never calls upstream.
type Service struct {
	resolver *region.Resolver
	weather  weatherSource
	air      airSource
	caches   airCaches
	astro    sunSource

	// Now is swappable in tests.
	Now func() time.Time
}

func NewService(
	resolver *region.Resolver,
	weatherClient weatherSource,
	airService airSource,
	caches airCaches,
	astroClient sunSource,
) *Service {
	return &Service{
		resolver: resolver,
		weather:  weatherClient,
		air:      airService,
		caches:   caches,
		astro:    astroClient,
		Now:      time.Now,
	}
}

// CurrentResponse carries the verdict for "now" with its supporting
// figures.
type CurrentResponse struct {
	SubRegion   string             `json:"sub_region"`
	Weather     weather.Snapshot   `json:"weather"`
	AirQuality  airquality.Reading `json:"air_quality"`
	Walkability Result             `json:"walkability"`
}

// Current scores the present moment at the given coordinates.
func (s *Service) Current(ctx context.Context, lat, lon float64, p DogProfile) (CurrentResponse, error) {
	reg := s.resolver.Resolve(lat, lon)

	snap, err := s.weather.Current(ctx, reg.Grid)
	if err != nil {
		return CurrentResponse{}, err
	}

	reading, err := s.air.Current(ctx, reg.Stations)
	if err != nil {
		return CurrentResponse{}, err
	}

	in := ScoreInput{
		Temperature:  snap.Temperature,
		Sky:          snap.Sky,
		PrecipType:   snap.PrecipType,
		PrecipAmount: snap.PrecipAmount,
		PrecipProb:   snap.PrecipProb,
		Air:          airFromReading(reading),
		At:           s.Now(),
	}
	// Outfit and phrase hints describe the walk the caller is about to
	// take, so only the current horizon carries them.
	result := withHints(ScoreSafely(in, p), in, p)
	return CurrentResponse{
		SubRegion:   reg.SubRegion,
		Weather:     snap,
		AirQuality:  reading,
		Walkability: result,
	}, nil
}

// DetailResponse extends the current verdict with sun times and the
// per-axis score breakdown.
type DetailResponse struct {
	CurrentResponse
	TemperatureScore int             `json:"temperature_score"`
	AirQualityScore  int             `json:"air_quality_score"`
	Sun              *astro.SunTimes `json:"sun,omitempty"`
}

// CurrentDetail scores the present moment and adds the axis breakdown and
// sunrise/sunset. A failed almanac lookup degrades to a response without
// sun times.
func (s *Service) CurrentDetail(ctx context.Context, lat, lon float64, p DogProfile) (DetailResponse, error) {
	current, err := s.Current(ctx, lat, lon, p)
	if err != nil {
		return DetailResponse{}, err
	}

	airScore := ScoreNA
	if !current.AirQuality.IsUnavailable() {
		airScore = airAxis(airFromReading(current.AirQuality), p)
	}
	detail := DetailResponse{
		CurrentResponse:  current,
		TemperatureScore: temperatureAxis(current.Weather.Temperature, p),
		AirQualityScore:  airScore,
	}
	if sun, err := s.astro.Lookup(ctx, lat, lon, s.Now()); err == nil {
		detail.Sun = &sun
	} else {
		log.Printf("walkability: sun times unavailable: %v", err)
	}
	return detail, nil
}

// HourlyEntry is one scored hour of the hourly forecast.
type HourlyEntry struct {
	Weather     weather.Snapshot `json:"weather"`
	AirQuality  airquality.Slot  `json:"air_quality"`
	Walkability Result           `json:"walkability"`
}

// Hourly scores the coming hours. Air-quality grades come from the rolling
// advisory cache; an hour the advisory does not cover scores with the
// moderate default rather than failing the response.
func (s *Service) Hourly(ctx context.Context, lat, lon float64, p DogProfile, hours int) ([]HourlyEntry, error) {
	reg := s.resolver.Resolve(lat, lon)
	now := s.Now()

	snaps, err := s.weather.Hourly(ctx, reg.Grid, hours)
	if err != nil {
		return nil, err
	}

	payload, err := s.caches.HourlyAdvisory(ctx)
	if err != nil {
		return nil, err
	}
	slots := airquality.HourlySlots(payload.Items, reg.SubRegion, now, hours)
	slotByHour := make(map[string]airquality.Slot, len(slots))
	for _, slot := range slots {
		slotByHour[slotKey(slot.Date, slot.Hour)] = slot
	}

	out := make([]HourlyEntry, 0, len(snaps))
	for _, snap := range snaps {
		slot, ok := slotByHour[snapshotKey(snap)]
		if !ok {
			slot = airquality.Slot{PM10Grade: 2, PM25Grade: 2}
		}
		in := ScoreInput{
			Temperature:  snap.Temperature,
			Sky:          snap.Sky,
			PrecipType:   snap.PrecipType,
			PrecipAmount: snap.PrecipAmount,
			PrecipProb:   snap.PrecipProb,
			Air:          airFromGrades(slot.PM10Grade, slot.PM25Grade, airquality.StandardKorean),
			At:           slotTime(snap, now.Location()),
		}
		out = append(out, HourlyEntry{
			Weather:     snap,
			AirQuality:  slot,
			Walkability: ScoreSafely(in, p),
		})
	}
	return out, nil
}

// DailyEntry is one scored day of the weekly forecast.
type DailyEntry struct {
	Weather     weather.DaySummary    `json:"weather"`
	AirQuality  airquality.DailyGrade `json:"air_quality"`
	Walkability Result                `json:"walkability"`
}

// Weekly scores the coming days. The daytime high stands in for the day's
// walking temperature.
func (s *Service) Weekly(ctx context.Context, lat, lon float64, p DogProfile, days int) ([]DailyEntry, error) {
	reg := s.resolver.Resolve(lat, lon)
	now := s.Now()

	summaries, err := s.weather.Weekly(ctx, reg.Grid, reg.MidRegionID, days)
	if err != nil {
		return nil, err
	}

	payload, err := s.caches.WeeklyOutlook(ctx)
	if err != nil {
		return nil, err
	}
	grades := airquality.DailyGrades(payload.Days, reg.SubRegion, p.Standard, now, days)
	gradeByDate := make(map[string]airquality.DailyGrade, len(grades))
	for _, g := range grades {
		gradeByDate[g.Date] = g
	}

	out := make([]DailyEntry, 0, len(summaries))
	for _, day := range summaries {
		grade, ok := gradeByDate[dashedDate(day.BaseDate)]
		if !ok {
			grade = airquality.DailyGrade{Date: dashedDate(day.BaseDate), PM10Grade: 2, PM25Grade: 2}
		}
		in := ScoreInput{
			Temperature: day.MaxTemp,
			Sky:         day.Sky,
			PrecipType:  day.PrecipType,
			Air:         airFromGrades(grade.PM10Grade, grade.PM25Grade, p.Standard),
			At:          noonOf(day.BaseDate, now),
		}
		out = append(out, DailyEntry{
			Weather:     day,
			AirQuality:  grade,
			Walkability: ScoreSafely(in, p),
		})
	}
	return out, nil
}

func slotKey(date string, hour int) string {
	return date + ":" + twoDigits(hour)
}

func snapshotKey(snap weather.Snapshot) string {
	tm := snap.BaseTime
	if len(tm) < 2 {
		return dashedDate(snap.BaseDate) + ":00"
	}
	return dashedDate(snap.BaseDate) + ":" + tm[:2]
}

// dashedDate converts a compact "20260901" date to "2026-09-01". Dates
// already dashed pass through.
func dashedDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

func twoDigits(n int) string {
	const digits = "0123456789"
	if n < 0 || n > 99 {
		return "00"
	}
	return string([]byte{digits[n/10], digits[n%10]})
}

// slotTime rebuilds a wall-clock time from a forecast slot's date+time.
func slotTime(snap weather.Snapshot, loc *time.Location) time.Time {
	t, err := time.ParseInLocation("200601021504", snap.BaseDate+snap.BaseTime, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// noonOf pins a day's score to midday, when the walk would happen.
func noonOf(compactDate string, now time.Time) time.Time {
	t, err := time.ParseInLocation("20060102", compactDate, now.Location())
	if err != nil {
		return now
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, now.Location())
}
