package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"newsarchive/internal/models"
	"newsarchive/internal/store"
)

// fakeFetcher serves canned records per date and remembers call order.
type fakeFetcher struct {
	mu      sync.Mutex
	records map[string]*models.DayRecord
	errs    map[string]error
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		records: make(map[string]*models.DayRecord),
		errs:    make(map[string]error),
	}
}

func (f *fakeFetcher) FetchDay(ctx context.Context, date string) (*models.DayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, date)
	if err, ok := f.errs[date]; ok {
		return nil, err
	}
	if rec, ok := f.records[date]; ok {
		return rec, nil
	}
	// Default: one item per day.
	return &models.DayRecord{
		Date: date,
		List: []models.NewsItem{{ID: date + "-1", Title: "news for " + date, Tag: "Economy"}},
	}, nil
}

func (f *fakeFetcher) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func fixedClock(key string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse("20060102", key)
		if err != nil {
			panic(err)
		}
		return t
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func writeDay(t *testing.T, st *store.Store, date string, items int) {
	t.Helper()
	rec := &models.DayRecord{List: []models.NewsItem{}}
	for i := 0; i < items; i++ {
		rec.List = append(rec.List, models.NewsItem{ID: fmt.Sprintf("%s-%d", date, i), Title: "t"})
	}
	if err := st.Write(date, rec); err != nil {
		t.Fatalf("Write(%s): %v", date, err)
	}
}

func newTestCrawler(st *store.Store, f Fetcher, today string) *Crawler {
	return New(st, f,
		WithDelay(0),
		WithLookback(7),
		WithProgressEvery(50),
		WithClock(fixedClock(today)),
	)
}

func TestSyncFetchesExactGapInOrder(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20251020", 1)

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	wantCalls := []string{"20251021", "20251022", "20251023"}
	calls := f.callList()
	if len(calls) != len(wantCalls) {
		t.Fatalf("fetched %v, want %v", calls, wantCalls)
	}
	for i := range wantCalls {
		if calls[i] != wantCalls[i] {
			t.Errorf("call %d = %s, want %s", i, calls[i], wantCalls[i])
		}
	}
	if stats.Stored != 3 || stats.Skipped != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 3 stored", stats)
	}
	for _, date := range wantCalls {
		if !st.Exists(date) {
			t.Errorf("date %s not persisted", date)
		}
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20251020", 1)

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	if _, err := c.Sync(context.Background()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	firstCalls := len(f.callList())

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if got := len(f.callList()); got != firstCalls {
		t.Errorf("second run made %d extra fetches, want 0", got-firstCalls)
	}
	if stats.Skipped != stats.Attempted || stats.Stored != 0 {
		t.Errorf("second run stats = %+v, want all skipped", stats)
	}
}

func TestSyncEmptyStoreUsesLookbackWindow(t *testing.T) {
	st := newTestStore(t)
	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	calls := f.callList()
	if len(calls) != 7 {
		t.Fatalf("fetched %d dates over empty store, want 7 (lookback)", len(calls))
	}
	if calls[0] != "20251017" || calls[6] != "20251023" {
		t.Errorf("window = [%s .. %s], want [20251017 .. 20251023]", calls[0], calls[6])
	}
	if stats.Stored != 7 {
		t.Errorf("stats = %+v, want 7 stored", stats)
	}
}

func TestSyncRechecksTodayWhenStoreIsAhead(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20251023", 1)

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(f.callList()) != 0 {
		t.Errorf("today already stored, want no fetches, got %v", f.callList())
	}
	if stats.Attempted != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want single skip of today", stats)
	}
}

func TestEmptyFetchResultIsTerminal(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20241231", 1)

	f := newFakeFetcher()
	f.records["20250101"] = &models.DayRecord{Date: "20250101", List: []models.NewsItem{}}
	c := newTestCrawler(st, f, "20250101")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats.Empty != 1 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want one empty outcome", stats)
	}
	if !st.Exists("20250101") {
		t.Fatal("empty result was not persisted")
	}
	rec, err := st.Read("20250101")
	if err != nil {
		t.Fatalf("Read persisted empty record: %v", err)
	}
	if rec.ItemCount() != 0 {
		t.Errorf("persisted record has %d items, want 0", rec.ItemCount())
	}

	// A second run must not re-fetch the genuinely newsless day.
	before := len(f.callList())
	if _, err := c.Sync(context.Background()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if got := len(f.callList()); got != before {
		t.Error("second run re-fetched a stored empty day")
	}
}

func TestFetchFailureDoesNotAbortRun(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20251020", 1)

	f := newFakeFetcher()
	f.errs["20251021"] = errors.New("upstream timeout")
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats.Failed != 1 || stats.Stored != 2 {
		t.Errorf("stats = %+v, want 1 failed and 2 stored", stats)
	}
	if st.Exists("20251021") {
		t.Error("failed date must not be persisted")
	}
	if !st.Exists("20251022") || !st.Exists("20251023") {
		t.Error("later dates must still be fetched after a failure")
	}
}

func TestWriteFailureCountsAsFailedAndRunContinues(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20241230", 1)

	// A regular file where the 2025 year directory belongs makes every
	// write into that year fail after a successful fetch.
	if err := os.WriteFile(filepath.Join(st.Root(), "2025"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20250102")

	stats, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := f.callList(); len(got) != 3 {
		t.Fatalf("fetched %v, want all three gap dates despite write failures", got)
	}
	if stats.Stored != 1 || stats.Failed != 2 {
		t.Errorf("stats = %+v, want 1 stored (20241231) and 2 failed", stats)
	}
	if !st.Exists("20241231") {
		t.Error("date in the writable year must be persisted")
	}
	if st.Exists("20250101") || st.Exists("20250102") {
		t.Error("failed writes must not leave records behind")
	}
}

func TestBackfillCapsAtEarliestStoredDate(t *testing.T) {
	st := newTestStore(t)
	for _, date := range []string{"20120701", "20120702", "20120703"} {
		writeDay(t, st, date, 1)
	}

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Backfill(context.Background(), "20110101", "20130101")
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	calls := f.callList()
	if len(calls) != 547 {
		t.Fatalf("fetched %d dates, want 547 (20110101..20120630)", len(calls))
	}
	if calls[0] != "20110101" || calls[len(calls)-1] != "20120630" {
		t.Errorf("range = [%s .. %s], want [20110101 .. 20120630]", calls[0], calls[len(calls)-1])
	}
	if stats.Skipped != 0 {
		t.Errorf("stats = %+v, want no skips over an unfetched range", stats)
	}

	earliest, err := st.EarliestDate(store.ScanExhaustive)
	if err != nil {
		t.Fatal(err)
	}
	if earliest != "20110101" {
		t.Errorf("EarliestDate after backfill = %s, want 20110101", earliest)
	}
}

func TestBackfillEmptyEffectiveRange(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20110101", 1)

	f := newFakeFetcher()
	c := newTestCrawler(st, f, "20251023")

	stats, err := c.Backfill(context.Background(), "20110101", "20130101")
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}
	if stats.Attempted != 0 || len(f.callList()) != 0 {
		t.Errorf("stats = %+v calls = %v, want nothing attempted", stats, f.callList())
	}
}

func TestBackfillRejectsBadKeys(t *testing.T) {
	st := newTestStore(t)
	c := newTestCrawler(st, newFakeFetcher(), "20251023")

	if _, err := c.Backfill(context.Background(), "2011-01-01", "20130101"); err == nil {
		t.Error("Backfill with malformed start: want error")
	}
	if _, err := c.Backfill(context.Background(), "20110101", "bad"); err == nil {
		t.Error("Backfill with malformed end: want error")
	}
}

func TestCancellationStopsAtDateBoundary(t *testing.T) {
	st := newTestStore(t)
	writeDay(t, st, "20251010", 1)

	ctx, cancel := context.WithCancel(context.Background())
	f := newFakeFetcher()
	// Cancel while processing the second date; the crawler should finish it
	// and stop before the third.
	c := New(st, fetchFunc(func(fctx context.Context, date string) (*models.DayRecord, error) {
		if date == "20251012" {
			cancel()
		}
		return f.FetchDay(fctx, date)
	}), WithDelay(0), WithClock(fixedClock("20251015")))

	stats, err := c.Sync(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sync after cancel: err = %v, want context.Canceled", err)
	}
	if stats.Attempted != 2 {
		t.Errorf("attempted %d dates, want 2 (cancelled at boundary)", stats.Attempted)
	}
	if !st.Exists("20251012") {
		t.Error("in-flight date should reach its terminal state before stopping")
	}
	if st.Exists("20251013") {
		t.Error("dates past the cancellation point must not be processed")
	}
}

// fetchFunc adapts a function to the Fetcher interface.
type fetchFunc func(ctx context.Context, date string) (*models.DayRecord, error)

func (f fetchFunc) FetchDay(ctx context.Context, date string) (*models.DayRecord, error) {
	return f(ctx, date)
}

func TestRunStatsSuccessRate(t *testing.T) {
	s := &RunStats{}
	for _, o := range []Outcome{OutcomeExists, OutcomeStored, OutcomeStored, OutcomeEmpty, OutcomeFailed} {
		s.Add(o)
	}
	if s.Attempted != 5 || s.Skipped != 1 || s.Stored != 2 || s.Empty != 1 || s.Failed != 1 {
		t.Fatalf("counts wrong: %+v", s)
	}
	// 3 successes out of 4 actual fetches.
	if got := s.SuccessRate(); got != 75.0 {
		t.Errorf("SuccessRate = %v, want 75", got)
	}

	empty := &RunStats{}
	if got := empty.SuccessRate(); got != 100.0 {
		t.Errorf("SuccessRate over no fetches = %v, want 100", got)
	}
}
