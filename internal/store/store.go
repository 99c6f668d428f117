// Package store persists one DayRecord JSON file per calendar date,
// partitioned into year directories: `{root}/{year}/{date}.json`.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"newsarchive/internal/dateutil"
	"newsarchive/internal/logger"
	"newsarchive/internal/models"
)

// ErrNotFound is returned by Read when no record exists for the date.
var ErrNotFound = errors.New("day record not found")

// CorruptRecordError means a day file exists but does not parse into the
// expected shape. Callers scanning the archive treat it as skip-and-warn,
// never as fatal.
type CorruptRecordError struct {
	Date string
	Path string
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt day record %s (%s): %v", e.Date, e.Path, e.Err)
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }

// ScanMode selects how EarliestDate/LatestDate walk the year directories.
type ScanMode int

const (
	// ScanFast stops at the first non-empty boundary year. It assumes no
	// sparse files exist in years beyond the first populated one, which
	// holds for archives filled by the crawler but is an approximation for
	// hand-edited stores.
	ScanFast ScanMode = iota
	// ScanExhaustive inspects every year directory.
	ScanExhaustive
)

// Store reads and writes DayRecords under a single root directory. Writes go
// through a temp file plus rename so a crash mid-write never leaves a
// parseable-looking partial file behind.
type Store struct {
	root     string
	validate *validator.Validate
	mu       sync.RWMutex
}

// New creates the store root if needed and returns a Store over it.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{
		root:     root,
		validate: validator.New(),
	}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Path returns the canonical file path for a date key. The year partition is
// always the first four digits of the key.
func (s *Store) Path(date string) string {
	return filepath.Join(s.root, date[:4], date+".json")
}

// Exists reports whether a readable record file is present for the date.
func (s *Store) Exists(date string) bool {
	if _, err := dateutil.ParseKey(date); err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.Path(date))
	return err == nil && info.Mode().IsRegular()
}

// Read loads the record for a date. It returns ErrNotFound when the file is
// absent and a *CorruptRecordError when the file is present but does not
// unmarshal or validate as a DayRecord.
func (s *Store) Read(date string) (*models.DayRecord, error) {
	if _, err := dateutil.ParseKey(date); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(date)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return nil, fmt.Errorf("failed to read day record %s: %w", date, err)
	}

	var rec models.DayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &CorruptRecordError{Date: date, Path: path, Err: err}
	}
	// A file without a list field unmarshals cleanly into a nil slice, so
	// shape problems only surface through validation.
	if err := s.validate.Struct(&rec); err != nil {
		return nil, &CorruptRecordError{Date: date, Path: path, Err: err}
	}
	if rec.Date == "" {
		rec.Date = date
	}
	return &rec, nil
}

// Write persists the record for a date, creating the year directory if
// needed. The record is written to a temp file in the same directory and
// renamed into place. Existing records are overwritten.
func (s *Store) Write(date string, rec *models.DayRecord) error {
	if _, err := dateutil.ParseKey(date); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	yearDir := filepath.Join(s.root, date[:4])
	if err := os.MkdirAll(yearDir, 0755); err != nil {
		return fmt.Errorf("failed to create year directory: %w", err)
	}

	if rec.Date == "" {
		rec.Date = date
	}
	if rec.List == nil {
		rec.List = []models.NewsItem{}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal day record: %w", err)
	}

	tmp, err := os.CreateTemp(yearDir, "."+date+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write day record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(date)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit day record: %w", err)
	}
	return nil
}

// Years returns the store's year directory names in ascending order. Entries
// that are not 4-digit directories are ignored.
func (s *Store) Years() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.yearsLocked()
}

func (s *Store) yearsLocked() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read store root: %w", err)
	}
	var years []string
	for _, e := range entries {
		if e.IsDir() && isYearName(e.Name()) {
			years = append(years, e.Name())
		}
	}
	sort.Strings(years)
	return years, nil
}

// DatesInYear returns the date keys persisted under one year directory in
// ascending order. A missing year directory yields an empty slice.
func (s *Store) DatesInYear(year string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datesInYearLocked(year)
}

func (s *Store) datesInYearLocked(year string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, year))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read year directory %s: %w", year, err)
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if _, err := dateutil.ParseKey(date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

// EarliestDate returns the smallest date key in the store, or "" for an
// empty store. In ScanFast mode the scan stops at the first year directory
// that contains any date file.
func (s *Store) EarliestDate(mode ScanMode) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years, err := s.yearsLocked()
	if err != nil {
		return "", err
	}
	earliest := ""
	for _, year := range years {
		dates, err := s.datesInYearLocked(year)
		if err != nil {
			logger.Get().Warn().Err(err).Str("year", year).Msg("Skipping unreadable year directory")
			continue
		}
		if len(dates) == 0 {
			continue
		}
		if earliest == "" || dates[0] < earliest {
			earliest = dates[0]
		}
		if mode == ScanFast {
			break
		}
	}
	return earliest, nil
}

// LatestDate returns the largest date key in the store, or "" for an empty
// store. ScanFast stops at the last populated year directory.
func (s *Store) LatestDate(mode ScanMode) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years, err := s.yearsLocked()
	if err != nil {
		return "", err
	}
	latest := ""
	for i := len(years) - 1; i >= 0; i-- {
		dates, err := s.datesInYearLocked(years[i])
		if err != nil {
			logger.Get().Warn().Err(err).Str("year", years[i]).Msg("Skipping unreadable year directory")
			continue
		}
		if len(dates) == 0 {
			continue
		}
		if last := dates[len(dates)-1]; latest == "" || last > latest {
			latest = last
		}
		if mode == ScanFast {
			break
		}
	}
	return latest, nil
}

func isYearName(name string) bool {
	if len(name) != 4 {
		return false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
