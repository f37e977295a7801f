package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ddui/walkability-api/internal/cache"
)

const (
	// Refresh times track the upstream publish schedule: the dust
	// advisory four times a day shortly after each announcement, the
	// weekly outlook once past midnight.
	hourlyCron = "30 5,11,17,23 * * *"
	weeklyCron = "0 0 * * *"

	refreshTimeout = 5 * time.Minute

	// misfireGrace is how far past a scheduled slot a missed refresh is
	// still worth running immediately.
	misfireGrace = 2 * time.Hour
)

// Scheduler keeps the rolling air-quality caches fresh on the upstream
// publish cadence.
type Scheduler struct {
	scheduler *gocron.Scheduler
	caches    *cache.AirQuality
	loc       *time.Location
}

// New creates a Scheduler in the given location; cron slots follow that
// location's wall clock.
func New(loc *time.Location, caches *cache.AirQuality) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		caches:    caches,
		loc:       loc,
	}
}

// Start registers both refresh jobs and starts the underlying scheduler.
// Jobs run in singleton mode so a refresh still in flight swallows its
// next trigger instead of overlapping it.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Cron(hourlyCron).SingletonMode().Do(func() {
		s.run("hourly", s.caches.RefreshHourly)
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Cron(weeklyCron).SingletonMode().Do(func() {
		s.run("weekly", s.caches.RefreshWeekly)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.catchUp()
	return nil
}

func (s *Scheduler) run(name string, refresh func(context.Context) error) {
	log.Printf("scheduler: refreshing %s air-quality cache", name)

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	// A failed refresh only logs; the stale cache stays in place until
	// the next trigger.
	if err := refresh(ctx); err != nil {
		log.Printf("scheduler: %s refresh failed: %v", name, err)
		return
	}
	log.Printf("scheduler: %s refresh completed", name)
}

// catchUp fires a refresh for any cache whose last population predates the
// most recent scheduled slot, covering triggers lost to downtime.
func (s *Scheduler) catchUp() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	now := time.Now().In(s.loc)

	if misfired(s.caches.HourlyCachedAt(ctx), lastHourlySlot(now), now) {
		s.run("hourly", s.caches.RefreshHourly)
	}
	if misfired(s.caches.WeeklyCachedAt(ctx), lastWeeklySlot(now), now) {
		s.run("weekly", s.caches.RefreshWeekly)
	}
}

// misfired reports whether a refresh scheduled at lastSlot was missed:
// the cache predates the slot and the slot is still recent enough to be
// worth catching up on.
func misfired(cachedAt, lastSlot, now time.Time) bool {
	if cachedAt.IsZero() {
		// Warm-up owns the empty-cache case.
		return false
	}
	if !cachedAt.Before(lastSlot) {
		return false
	}
	return now.Sub(lastSlot) <= misfireGrace
}

// lastHourlySlot returns the most recent 05:30/11:30/17:30/23:30 slot at
// or before now.
func lastHourlySlot(now time.Time) time.Time {
	for d := 0; d <= 1; d++ {
		day := now.AddDate(0, 0, -d)
		for _, h := range []int{23, 17, 11, 5} {
			slot := time.Date(day.Year(), day.Month(), day.Day(), h, 30, 0, 0, now.Location())
			if !slot.After(now) {
				return slot
			}
		}
	}
	return now
}

// lastWeeklySlot returns the most recent midnight at or before now.
func lastWeeklySlot(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
