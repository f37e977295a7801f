package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ddui/walkability-api/internal/airquality"
)

const (
	hourlyKey = "air_quality:hourly"
	weeklyKey = "air_quality:weekly"

	// TTLs are generous multiples of the refresh cadence so a few failed
	// refreshes serve stale data instead of nothing.
	hourlyTTL = 24 * time.Hour
	weeklyTTL = 72 * time.Hour

	warmUpAttempts = 10
	warmUpDelay    = 5 * time.Minute
)

// Fetcher is the slice of the acquisition layer the rolling caches refresh
// from.
type Fetcher interface {
	FetchAdvisory(ctx context.Context) ([]airquality.AdvisoryItem, error)
	FetchWeeklyOutlook(ctx context.Context) ([]airquality.WeeklyDay, error)
}

// HourlyPayload is the cached advisory snapshot. CachedAt lets the
// scheduler detect a missed refresh after downtime.
type HourlyPayload struct {
	CachedAt time.Time                 `json:"cached_at"`
	Items    []airquality.AdvisoryItem `json:"items"`
}

// WeeklyPayload is the cached weekly outlook snapshot.
type WeeklyPayload struct {
	CachedAt time.Time              `json:"cached_at"`
	Days     []airquality.WeeklyDay `json:"days"`
}

// AirQuality maintains the two rolling air-quality caches. Values are
// overwritten whole on refresh, so readers always see one coherent
// snapshot; a failed refresh leaves the previous snapshot in place.
type AirQuality struct {
	store   Cache
	fetcher Fetcher

	// Now and the warm-up pacing are swappable in tests.
	Now            func() time.Time
	warmUpDelay    time.Duration
	warmUpAttempts int
}

func NewAirQuality(store Cache, fetcher Fetcher) *AirQuality {
	return &AirQuality{
		store:          store,
		fetcher:        fetcher,
		Now:            time.Now,
		warmUpDelay:    warmUpDelay,
		warmUpAttempts: warmUpAttempts,
	}
}

// HourlyAdvisory returns the cached advisory rows, fetching synchronously
// on a miss so the first reader after a cold start seeds the cache.
func (a *AirQuality) HourlyAdvisory(ctx context.Context) (HourlyPayload, error) {
	var payload HourlyPayload
	if ok, err := a.read(ctx, hourlyKey, &payload); err != nil {
		return HourlyPayload{}, err
	} else if ok {
		return payload, nil
	}
	if err := a.RefreshHourly(ctx); err != nil {
		return HourlyPayload{}, err
	}
	if ok, err := a.read(ctx, hourlyKey, &payload); err != nil || !ok {
		return HourlyPayload{}, fmt.Errorf("hourly cache unreadable after refresh: %w", err)
	}
	return payload, nil
}

// WeeklyOutlook returns the cached outlook days, fetching synchronously on
// a miss.
func (a *AirQuality) WeeklyOutlook(ctx context.Context) (WeeklyPayload, error) {
	var payload WeeklyPayload
	if ok, err := a.read(ctx, weeklyKey, &payload); err != nil {
		return WeeklyPayload{}, err
	} else if ok {
		return payload, nil
	}
	if err := a.RefreshWeekly(ctx); err != nil {
		return WeeklyPayload{}, err
	}
	if ok, err := a.read(ctx, weeklyKey, &payload); err != nil || !ok {
		return WeeklyPayload{}, fmt.Errorf("weekly cache unreadable after refresh: %w", err)
	}
	return payload, nil
}

// HourlyCachedAt reports when the hourly cache was last populated. The
// zero time means the cache is empty.
func (a *AirQuality) HourlyCachedAt(ctx context.Context) time.Time {
	var payload HourlyPayload
	if ok, err := a.read(ctx, hourlyKey, &payload); err != nil || !ok {
		return time.Time{}
	}
	return payload.CachedAt
}

// WeeklyCachedAt reports when the weekly cache was last populated.
func (a *AirQuality) WeeklyCachedAt(ctx context.Context) time.Time {
	var payload WeeklyPayload
	if ok, err := a.read(ctx, weeklyKey, &payload); err != nil || !ok {
		return time.Time{}
	}
	return payload.CachedAt
}

// RefreshHourly re-fetches the advisory and overwrites the hourly cache.
func (a *AirQuality) RefreshHourly(ctx context.Context) error {
	items, err := a.fetcher.FetchAdvisory(ctx)
	if err != nil {
		return fmt.Errorf("refresh hourly air quality: %w", err)
	}
	return a.write(ctx, hourlyKey, HourlyPayload{CachedAt: a.Now(), Items: items}, hourlyTTL)
}

// RefreshWeekly re-fetches the outlook and overwrites the weekly cache.
func (a *AirQuality) RefreshWeekly(ctx context.Context) error {
	days, err := a.fetcher.FetchWeeklyOutlook(ctx)
	if err != nil {
		return fmt.Errorf("refresh weekly air quality: %w", err)
	}
	return a.write(ctx, weeklyKey, WeeklyPayload{CachedAt: a.Now(), Days: days}, weeklyTTL)
}

// WarmUp populates any empty cache at process start. The upstream has
// known multi-hour blackout windows, so it retries each cache up to ten
// times with a fixed delay before reporting a fatal error.
func (a *AirQuality) WarmUp(ctx context.Context) error {
	if err := a.warmUpOne(ctx, "hourly", hourlyKey, a.RefreshHourly); err != nil {
		return err
	}
	return a.warmUpOne(ctx, "weekly", weeklyKey, a.RefreshWeekly)
}

func (a *AirQuality) warmUpOne(ctx context.Context, name, key string, refresh func(context.Context) error) error {
	if _, ok, err := a.store.Get(ctx, key); err == nil && ok {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= a.warmUpAttempts; attempt++ {
		lastErr = refresh(ctx)
		if lastErr == nil {
			log.Printf("cache: %s air-quality cache warmed up (attempt %d)", name, attempt)
			return nil
		}
		log.Printf("cache: warm-up attempt %d/%d for %s cache failed: %v", attempt, a.warmUpAttempts, name, lastErr)
		if attempt == a.warmUpAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.warmUpDelay):
		}
	}
	return fmt.Errorf("warm up %s air-quality cache: %w", name, lastErr)
}

func (a *AirQuality) read(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		// A corrupt entry behaves like a miss so the next refresh heals it.
		log.Printf("cache: dropping corrupt entry %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (a *AirQuality) write(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, raw, ttl)
}
