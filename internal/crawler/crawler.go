// Package crawler fills date gaps in the day store. It figures out which
// dates are missing between the store's known boundaries and "now" (or an
// explicit historical range), then fetches and persists them strictly one at
// a time with an enforced delay between requests — the upstream archive is
// rate limited and the courtesy delay is a correctness requirement, not an
// optimization.
package crawler

import (
	"context"
	"fmt"
	"time"

	"newsarchive/internal/dateutil"
	"newsarchive/internal/logger"
	"newsarchive/internal/models"
	"newsarchive/internal/store"
)

// Fetcher retrieves the raw day record for one date from the upstream
// archive. A nil-error return with zero items means the date genuinely had
// no news. Transport behavior (timeouts, retries) is the implementation's
// own concern; the crawler treats any error as a terminal failure for that
// date within the run.
type Fetcher interface {
	FetchDay(ctx context.Context, date string) (*models.DayRecord, error)
}

// Crawler drives sequential fetch-and-store over a missing date range.
type Crawler struct {
	store   *store.Store
	fetcher Fetcher

	delay         time.Duration
	lookbackDays  int
	progressEvery int
	now           func() time.Time
}

// Option customizes a Crawler.
type Option func(*Crawler)

// WithDelay sets the minimum pause between consecutive fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) { c.delay = d }
}

// WithLookback sets how many days a sync reaches back over an empty store.
func WithLookback(days int) Option {
	return func(c *Crawler) { c.lookbackDays = days }
}

// WithProgressEvery sets how many dates pass between progress reports.
func WithProgressEvery(n int) Option {
	return func(c *Crawler) { c.progressEvery = n }
}

// WithClock replaces the crawler's notion of "now". The supplied function
// must return times in the archive's configured timezone.
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) { c.now = now }
}

// New creates a Crawler over the given store and fetch collaborator. The
// defaults match the archive's courtesy limits: a 900ms inter-request delay,
// a 7-day lookback over an empty store, and progress every 50 dates.
func New(st *store.Store, fetcher Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		store:         st,
		fetcher:       fetcher,
		delay:         900 * time.Millisecond,
		lookbackDays:  7,
		progressEvery: 50,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync fills the gap between the store's latest known date and today. Over
// an empty store it falls back to the configured lookback window ending
// today. When the store is already at or past today it still re-checks today
// alone, in case intraday data has appeared; if today is stored that is a
// no-op skip.
func (c *Crawler) Sync(ctx context.Context) (*RunStats, error) {
	today := dateutil.FormatKey(c.now())

	latest, err := c.store.LatestDate(store.ScanFast)
	if err != nil {
		return nil, fmt.Errorf("failed to locate latest stored date: %w", err)
	}

	var start string
	switch {
	case latest == "":
		start, err = dateutil.AddDays(today, -(c.lookbackDays - 1))
		if err != nil {
			return nil, err
		}
	case latest >= today:
		start = today
	default:
		start, err = dateutil.AddDays(latest, 1)
		if err != nil {
			return nil, err
		}
	}

	logger.Get().Info().
		Str("latest_stored", latest).
		Str("from", start).
		Str("to", today).
		Msg("Starting day sync")

	return c.run(ctx, start, today)
}

// Backfill fetches an explicit historical range [start, end]. When the store
// already holds data, the effective end is capped at one day before the
// earliest stored date, so repeated runs shrink the remaining gap instead of
// re-walking dates that are already present.
func (c *Crawler) Backfill(ctx context.Context, start, end string) (*RunStats, error) {
	if _, err := dateutil.ParseKey(start); err != nil {
		return nil, err
	}
	if _, err := dateutil.ParseKey(end); err != nil {
		return nil, err
	}

	earliest, err := c.store.EarliestDate(store.ScanFast)
	if err != nil {
		return nil, fmt.Errorf("failed to locate earliest stored date: %w", err)
	}
	if earliest != "" {
		boundary, err := dateutil.AddDays(earliest, -1)
		if err != nil {
			return nil, err
		}
		if boundary < end {
			end = boundary
		}
	}

	logger.Get().Info().
		Str("earliest_stored", earliest).
		Str("from", start).
		Str("to", end).
		Msg("Starting historical backfill")

	return c.run(ctx, start, end)
}

// run walks [start, end] in calendar order, resolving each date to exactly
// one terminal outcome. Per-date failures never abort the run; cancellation
// is honored at date boundaries only, so an in-flight date always reaches a
// terminal state.
func (c *Crawler) run(ctx context.Context, start, end string) (*RunStats, error) {
	log := logger.Get()
	began := time.Now()
	stats := &RunStats{}

	cur, err := dateutil.NewCursor(start, end)
	if err != nil {
		return nil, err
	}
	total := cur.Len()
	if total == 0 {
		log.Info().Str("from", start).Str("to", end).Msg("Nothing to fetch, range is empty")
		return stats, nil
	}

	for date, ok := cur.Next(); ok; date, ok = cur.Next() {
		if err := ctx.Err(); err != nil {
			log.Warn().
				Str("next_date", date).
				Str("progress", stats.Summary()).
				Msg("Crawl cancelled")
			return stats, err
		}

		outcome := c.processDate(ctx, date)
		stats.Add(outcome)

		if stats.Attempted%c.progressEvery == 0 {
			log.Info().
				Int("done", stats.Attempted).
				Int("total", total).
				Int("stored", stats.Stored).
				Int("empty", stats.Empty).
				Int("skipped", stats.Skipped).
				Int("failed", stats.Failed).
				Msg("Crawl progress")
		}

		// Courtesy delay after every real fetch attempt. Skips cost nothing
		// upstream, so they don't pay it.
		if outcome != OutcomeExists && stats.Attempted < total {
			select {
			case <-ctx.Done():
			case <-time.After(c.delay):
			}
		}
	}

	log.Info().
		Str("from", start).
		Str("to", end).
		Str("summary", stats.Summary()).
		Dur("duration", time.Since(began)).
		Msg("Crawl finished")

	return stats, nil
}

// processDate moves one date through the per-date state machine and returns
// its terminal outcome.
func (c *Crawler) processDate(ctx context.Context, date string) Outcome {
	log := logger.Get()

	if c.store.Exists(date) {
		log.Debug().Str("date", date).Msg("Date already stored, skipping")
		return OutcomeExists
	}

	rec, err := c.fetcher.FetchDay(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Fetch failed")
		return OutcomeFailed
	}

	if err := c.store.Write(date, rec); err != nil {
		log.Error().Err(err).Str("date", date).Msg("Failed to write day record")
		return OutcomeFailed
	}

	// Verify the write landed. A store that claims success but has no
	// readable file is a reportable failure, not something to swallow.
	if !c.store.Exists(date) {
		log.Error().Str("date", date).Msg("Write verification failed, record missing after write")
		return OutcomeFailed
	}

	if rec.ItemCount() == 0 {
		log.Info().Str("date", date).Msg("No news for date, stored empty record")
		return OutcomeEmpty
	}

	log.Info().Str("date", date).Int("items", rec.ItemCount()).Msg("Stored day record")
	return OutcomeStored
}
