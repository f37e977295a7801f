package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddui/walkability-api/internal/airquality"
)

type stubFetcher struct {
	advisory         []airquality.AdvisoryItem
	advisoryErr      error
	advisoryFailures int
	advisoryHits     int

	outlook     []airquality.WeeklyDay
	outlookErr  error
	outlookHits int
}

func (f *stubFetcher) FetchAdvisory(context.Context) ([]airquality.AdvisoryItem, error) {
	f.advisoryHits++
	if f.advisoryFailures > 0 && f.advisoryHits <= f.advisoryFailures {
		return nil, errors.New("upstream blackout")
	}
	return f.advisory, f.advisoryErr
}

func (f *stubFetcher) FetchWeeklyOutlook(context.Context) ([]airquality.WeeklyDay, error) {
	f.outlookHits++
	return f.outlook, f.outlookErr
}

func newTestAirQuality(f *stubFetcher) *AirQuality {
	a := NewAirQuality(NewMemoryCache(), f)
	a.Now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	a.warmUpDelay = time.Millisecond
	a.warmUpAttempts = 3
	return a
}

func TestHourlyAdvisoryMissSeedsCache(t *testing.T) {
	f := &stubFetcher{advisory: []airquality.AdvisoryItem{
		{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"},
	}}
	a := newTestAirQuality(f)

	payload, err := a.HourlyAdvisory(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 1, f.advisoryHits)

	// Second read is served from the cache.
	payload, err = a.HourlyAdvisory(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 1, f.advisoryHits)
	assert.False(t, payload.CachedAt.IsZero())
}

func TestRefreshFailureKeepsStaleSnapshot(t *testing.T) {
	f := &stubFetcher{advisory: []airquality.AdvisoryItem{
		{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"},
	}}
	a := newTestAirQuality(f)
	require.NoError(t, a.RefreshHourly(context.Background()))

	f.advisoryErr = errors.New("upstream blackout")
	require.Error(t, a.RefreshHourly(context.Background()))

	// The previous snapshot stays authoritative.
	payload, err := a.HourlyAdvisory(context.Background())
	require.NoError(t, err)
	assert.Len(t, payload.Items, 1)
}

func TestRefreshOverwritesWhole(t *testing.T) {
	f := &stubFetcher{advisory: []airquality.AdvisoryItem{
		{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 5, GradeBlob: "서울 : 나쁨"},
		{InformCode: "PM25", TargetDate: "2026-09-01", PublishHour: 5, GradeBlob: "서울 : 나쁨"},
	}}
	a := newTestAirQuality(f)
	require.NoError(t, a.RefreshHourly(context.Background()))

	f.advisory = []airquality.AdvisoryItem{
		{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"},
	}
	require.NoError(t, a.RefreshHourly(context.Background()))

	payload, err := a.HourlyAdvisory(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 11, payload.Items[0].PublishHour)
}

func TestWeeklyOutlookMissSeedsCache(t *testing.T) {
	f := &stubFetcher{outlook: []airquality.WeeklyDay{
		{Date: "2026-09-03", Blob: "서울 : 낮음"},
	}}
	a := newTestAirQuality(f)

	payload, err := a.WeeklyOutlook(context.Background())
	require.NoError(t, err)
	require.Len(t, payload.Days, 1)
	assert.Equal(t, 1, f.outlookHits)
}

func TestWarmUpRetriesThenSucceeds(t *testing.T) {
	f := &stubFetcher{
		advisoryFailures: 2,
		advisory:         []airquality.AdvisoryItem{{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"}},
		outlook:          []airquality.WeeklyDay{{Date: "2026-09-03", Blob: "서울 : 낮음"}},
	}
	a := newTestAirQuality(f)

	err := a.WarmUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.advisoryHits)
	assert.Equal(t, 1, f.outlookHits)
}

func TestWarmUpExhaustsAttempts(t *testing.T) {
	f := &stubFetcher{advisoryErr: errors.New("upstream blackout")}
	a := newTestAirQuality(f)

	err := a.WarmUp(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, f.advisoryHits)
}

func TestWarmUpSkipsPopulatedCache(t *testing.T) {
	f := &stubFetcher{
		advisory: []airquality.AdvisoryItem{{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"}},
		outlook:  []airquality.WeeklyDay{{Date: "2026-09-03", Blob: "서울 : 낮음"}},
	}
	a := newTestAirQuality(f)
	require.NoError(t, a.RefreshHourly(context.Background()))
	require.NoError(t, a.RefreshWeekly(context.Background()))

	require.NoError(t, a.WarmUp(context.Background()))
	assert.Equal(t, 1, f.advisoryHits)
	assert.Equal(t, 1, f.outlookHits)
}

func TestCachedAtReporting(t *testing.T) {
	f := &stubFetcher{advisory: []airquality.AdvisoryItem{{InformCode: "PM10", TargetDate: "2026-09-01", PublishHour: 11, GradeBlob: "서울 : 좋음"}}}
	a := newTestAirQuality(f)

	assert.True(t, a.HourlyCachedAt(context.Background()).IsZero())
	require.NoError(t, a.RefreshHourly(context.Background()))
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), a.HourlyCachedAt(context.Background()))
}
