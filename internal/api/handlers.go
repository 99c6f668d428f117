package api

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"newsarchive/internal/config"
	"newsarchive/internal/dateutil"
	"newsarchive/internal/index"
	"newsarchive/internal/logger"
	"newsarchive/internal/site"
	"newsarchive/internal/store"
)

// Handlers serves the generated site data plus live day lookups for the
// preview server.
type Handlers struct {
	config  *config.Config
	store   *store.Store
	indexer *index.Indexer
}

func NewHandlers(cfg *config.Config) (*Handlers, error) {
	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return nil, err
	}
	return &Handlers{
		config:  cfg,
		store:   st,
		indexer: index.New(st, index.WithRecentWindow(cfg.RecentWindowDays, cfg.RecentCap)),
	}, nil
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetArchive handles GET /api/v1/archive, serving the generated index.json.
func (h *Handlers) GetArchive(c *fiber.Ctx) error {
	return h.sendGenerated(c, "index.json")
}

// GetRecent handles GET /api/v1/recent
func (h *Handlers) GetRecent(c *fiber.Ctx) error {
	return h.sendGenerated(c, "recent.json")
}

// GetSearch handles GET /api/v1/search
func (h *Handlers) GetSearch(c *fiber.Ctx) error {
	return h.sendGenerated(c, "search.json")
}

func (h *Handlers) sendGenerated(c *fiber.Ctx, name string) error {
	path := filepath.Join(h.config.OutputDir, name)
	if err := c.SendFile(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Site data not built yet, run the build command first",
		})
	}
	return nil
}

// GetDay handles GET /api/v1/day/:date, reading the record straight from the
// store.
func (h *Handlers) GetDay(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := dateutil.ParseKey(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be an 8-digit YYYYMMDD key",
		})
	}

	rec, err := h.store.Read(date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No record for that date",
			})
		}
		var corrupt *store.CorruptRecordError
		if errors.As(err, &corrupt) {
			logger.Get().Warn().Err(corrupt.Err).Str("date", date).Msg("Corrupt day record requested")
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Record exists but is not readable",
			})
		}
		logger.Get().Error().Err(err).Str("date", date).Msg("Error reading day record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read day record",
		})
	}

	return c.JSON(rec)
}

// Rebuild handles POST /api/v1/admin/rebuild: re-index the store and export
// fresh site data in the background.
func (h *Handlers) Rebuild(c *fiber.Ctx) error {
	log := logger.Get()
	log.Info().Str("ip", c.IP()).Msg("Received rebuild request")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		idx, err := h.indexer.Build(ctx, h.config.Now())
		if err != nil {
			log.Error().Err(err).Msg("Background rebuild failed during indexing")
			return
		}
		exporter, err := site.NewExporter(h.config.OutputDir)
		if err != nil {
			log.Error().Err(err).Msg("Background rebuild failed opening output directory")
			return
		}
		if err := exporter.Export(ctx, idx, h.store); err != nil {
			log.Error().Err(err).Msg("Background rebuild failed during export")
			return
		}
		log.Info().Int("total_news", idx.TotalNews).Msg("Background rebuild finished")
	}()

	return c.JSON(fiber.Map{
		"status":  "started",
		"message": "Rebuild running in the background",
	})
}
