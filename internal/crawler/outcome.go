package crawler

import "fmt"

// Outcome is the terminal state of one date within a single run. Every
// attempted date ends in exactly one of these.
type Outcome int

const (
	// OutcomeExists means the date was already in the store; no fetch was
	// attempted.
	OutcomeExists Outcome = iota
	// OutcomeStored means the fetch returned at least one item and the
	// record was written.
	OutcomeStored
	// OutcomeEmpty means the fetch succeeded with zero items; the empty
	// record was still written so the date is never re-fetched.
	OutcomeEmpty
	// OutcomeFailed means the fetch errored or the post-write check failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExists:
		return "exists"
	case OutcomeStored:
		return "stored"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// RunStats accumulates per-outcome counts over one crawl run. It is returned
// by the run loop rather than kept as shared mutable state so a single date's
// outcome can be asserted without standing up a whole run.
type RunStats struct {
	Attempted int `json:"attempted"`
	Skipped   int `json:"skipped"`
	Stored    int `json:"stored"`
	Empty     int `json:"empty"`
	Failed    int `json:"failed"`
}

// Add records one terminal outcome.
func (s *RunStats) Add(o Outcome) {
	s.Attempted++
	switch o {
	case OutcomeExists:
		s.Skipped++
	case OutcomeStored:
		s.Stored++
	case OutcomeEmpty:
		s.Empty++
	case OutcomeFailed:
		s.Failed++
	}
}

// Fetched returns how many dates were actually fetched (not skipped).
func (s *RunStats) Fetched() int {
	return s.Attempted - s.Skipped
}

// SuccessRate returns successful fetches over attempted fetches as a
// percentage. Skipped dates do not count against the rate. A run with no
// fetches reports 100%.
func (s *RunStats) SuccessRate() float64 {
	fetched := s.Fetched()
	if fetched == 0 {
		return 100.0
	}
	return float64(s.Stored+s.Empty) / float64(fetched) * 100.0
}

// Summary renders the human-readable end-of-run line.
func (s *RunStats) Summary() string {
	return fmt.Sprintf("attempted=%d stored=%d empty=%d skipped=%d failed=%d success=%.1f%%",
		s.Attempted, s.Stored, s.Empty, s.Skipped, s.Failed, s.SuccessRate())
}
