// Package site turns the archive into the three JSON views the static site
// is built from: index.json (browse tree plus aggregates), recent.json (the
// bounded recent window), and search.json (one flattened entry per item).
// HTML rendering is a downstream concern; this package only emits data.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"newsarchive/internal/logger"
	"newsarchive/internal/models"
	"newsarchive/internal/store"
	"newsarchive/internal/utils"
)

const (
	indexFile  = "index.json"
	recentFile = "recent.json"
	searchFile = "search.json"
)

// Exporter writes the generated site data into an output directory.
type Exporter struct {
	outDir string
}

// NewExporter creates the output directory if needed.
func NewExporter(outDir string) (*Exporter, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Exporter{outDir: outDir}, nil
}

// Export writes index.json and recent.json from the prebuilt index, then
// walks the store once more to flatten every item into search.json. Corrupt
// day files are skipped with a warning, matching indexing semantics.
func (e *Exporter) Export(ctx context.Context, idx *models.ArchiveIndex, st *store.Store) error {
	start := time.Now()

	if err := e.writeJSON(indexFile, idx); err != nil {
		return err
	}
	if err := e.writeJSON(recentFile, idx.Recent); err != nil {
		return err
	}

	entries, err := e.collectSearchEntries(ctx, st)
	if err != nil {
		return err
	}
	if err := e.writeJSON(searchFile, entries); err != nil {
		return err
	}

	logger.Get().Info().
		Str("dir", e.outDir).
		Int("search_entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Site data exported")
	return nil
}

// WriteCommentary stores one day's AI commentary alongside the site data as
// `commentary/{year}/{date}.json`.
func (e *Exporter) WriteCommentary(date, text string) error {
	dir := filepath.Join(e.outDir, "commentary", date[:4])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create commentary directory: %w", err)
	}
	payload := struct {
		Date       string `json:"date"`
		Commentary string `json:"commentary"`
	}{Date: date, Commentary: text}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal commentary: %w", err)
	}
	path := filepath.Join(dir, date+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write commentary: %w", err)
	}
	return nil
}

func (e *Exporter) collectSearchEntries(ctx context.Context, st *store.Store) ([]models.SearchEntry, error) {
	log := logger.Get()
	entries := []models.SearchEntry{}

	years, err := st.Years()
	if err != nil {
		return nil, err
	}
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dates, err := st.DatesInYear(year)
		if err != nil {
			log.Warn().Err(err).Str("year", year).Msg("Skipping unreadable year directory")
			continue
		}
		for _, date := range dates {
			rec, err := st.Read(date)
			if err != nil {
				var corrupt *store.CorruptRecordError
				if errors.As(err, &corrupt) {
					log.Warn().Err(corrupt.Err).Str("date", date).Msg("Skipping corrupt day record")
					continue
				}
				return nil, err
			}
			for _, item := range rec.List {
				entries = append(entries, flatten(date, item))
			}
		}
	}
	return entries, nil
}

// flatten denormalizes one item into a search row. Items without an upstream
// ID get a stable hash of their date and title so permalinks never collide.
func flatten(date string, item models.NewsItem) models.SearchEntry {
	id := item.ID
	if id == "" {
		id = utils.Hash(date + item.Title)[:12]
	}
	return models.SearchEntry{
		ID:        id,
		Date:      date,
		Year:      date[:4],
		Month:     date[4:6],
		Day:       date[6:8],
		Title:     item.Title,
		Brief:     item.Brief,
		Tag:       item.Tag,
		Permalink: fmt.Sprintf("/news/%s/%s.html#%s", date[:4], date, id),
	}
}

func (e *Exporter) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(e.outDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
