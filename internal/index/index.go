// Package index rebuilds the ArchiveIndex aggregate from the day store. The
// index is a pure function of the persisted records: every Build starts from
// zero and folds the whole archive, so two passes over an unchanged store
// produce identical output.
package index

import (
	"context"
	"errors"
	"sort"
	"time"

	"newsarchive/internal/dateutil"
	"newsarchive/internal/logger"
	"newsarchive/internal/models"
	"newsarchive/internal/store"
)

// Indexer folds every persisted DayRecord into an ArchiveIndex.
type Indexer struct {
	store        *store.Store
	lookbackDays int
	recentCap    int
	stoplist     map[string]struct{}
}

// Option customizes an Indexer.
type Option func(*Indexer)

// WithRecentWindow overrides the recent-window lookback and cap.
func WithRecentWindow(lookbackDays, cap int) Option {
	return func(ix *Indexer) {
		ix.lookbackDays = lookbackDays
		ix.recentCap = cap
	}
}

// WithStoplist overrides the tag stoplist.
func WithStoplist(stoplist map[string]struct{}) Option {
	return func(ix *Indexer) {
		ix.stoplist = stoplist
	}
}

// New creates an Indexer over the given store with a 30-day/100-item recent
// window by default.
func New(st *store.Store, opts ...Option) *Indexer {
	ix := &Indexer{
		store:        st,
		lookbackDays: 30,
		recentCap:    100,
		stoplist:     DefaultStoplist,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build walks every year directory and day file in the store and folds them
// into a fresh ArchiveIndex. Corrupt records and unreadable year directories
// are logged and skipped, never fatal. An empty store yields an index with
// zero totals and empty date bounds.
//
// now anchors the recent window; pass it in the configured archive timezone.
func (ix *Indexer) Build(ctx context.Context, now time.Time) (*models.ArchiveIndex, error) {
	log := logger.Get()
	start := time.Now()

	idx := &models.ArchiveIndex{
		Years:      make(map[string]map[string][]models.DaySummary),
		Categories: make(map[string]int),
		// Non-nil so recent.json serializes as [] when the window is empty.
		Recent:      []models.RecentItem{},
		GeneratedAt: now,
	}

	cutoff := dateutil.FormatKey(now.AddDate(0, 0, -ix.lookbackDays))
	today := dateutil.FormatKey(now)

	years, err := ix.store.Years()
	if err != nil {
		return nil, err
	}

	scanned := 0
	skipped := 0
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dates, err := ix.store.DatesInYear(year)
		if err != nil {
			log.Warn().Err(err).Str("year", year).Msg("Skipping unreadable year directory")
			continue
		}
		for _, date := range dates {
			rec, err := ix.store.Read(date)
			if err != nil {
				var corrupt *store.CorruptRecordError
				if errors.As(err, &corrupt) {
					log.Warn().
						Str("date", date).
						Str("path", corrupt.Path).
						Err(corrupt.Err).
						Msg("Skipping corrupt day record")
					skipped++
					continue
				}
				return nil, err
			}
			ix.fold(idx, date, rec, cutoff, today)
			scanned++
		}
	}

	// The recent list is collected in ascending scan order; flip to newest
	// first and truncate to the cap.
	sort.SliceStable(idx.Recent, func(i, j int) bool {
		return idx.Recent[i].Date > idx.Recent[j].Date
	})
	if len(idx.Recent) > ix.recentCap {
		idx.Recent = idx.Recent[:ix.recentCap]
	}

	log.Info().
		Int("days_scanned", scanned).
		Int("days_skipped", skipped).
		Int("total_news", idx.TotalNews).
		Str("first_date", idx.FirstDate).
		Str("last_date", idx.LastDate).
		Dur("duration", time.Since(start)).
		Msg("Archive index built")

	return idx, nil
}

// fold merges a single day record into the aggregate.
func (ix *Indexer) fold(idx *models.ArchiveIndex, date string, rec *models.DayRecord, cutoff, today string) {
	count := rec.ItemCount()
	idx.TotalNews += count

	if idx.FirstDate == "" || date < idx.FirstDate {
		idx.FirstDate = date
	}
	if idx.LastDate == "" || date > idx.LastDate {
		idx.LastDate = date
	}

	year, month := date[:4], date[4:6]
	if idx.Years[year] == nil {
		idx.Years[year] = make(map[string][]models.DaySummary)
	}
	// Dates arrive in ascending order per year, so appending keeps each
	// month list chronologically sorted.
	idx.Years[year][month] = append(idx.Years[year][month], models.DaySummary{
		Date:  date,
		Count: count,
	})

	for _, item := range rec.List {
		for _, tag := range SplitTags(item.Tag, ix.stoplist) {
			idx.Categories[tag]++
		}
		if date >= cutoff && date <= today {
			idx.Recent = append(idx.Recent, models.RecentItem{
				Date:  date,
				ID:    item.ID,
				Title: item.Title,
				Brief: item.Brief,
				Tag:   item.Tag,
				Image: item.Image,
				URL:   item.URL,
			})
		}
	}
}
