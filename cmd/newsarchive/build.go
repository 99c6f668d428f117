package main

import (
	"context"

	"github.com/spf13/cobra"

	"newsarchive/internal/ai"
	"newsarchive/internal/cache"
	"newsarchive/internal/index"
	"newsarchive/internal/logger"
	"newsarchive/internal/models"
	"newsarchive/internal/site"
	"newsarchive/internal/store"
)

var flagCommentary bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the archive index and export site data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return runBuild(ctx)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&flagCommentary, "commentary", false, "generate AI commentary for recent dates (requires AI_API_KEY)")
}

// runBuild re-indexes the store and exports index.json, recent.json and
// search.json. Commentary generation is best-effort: a failed date is logged
// and skipped, the build still succeeds.
func runBuild(ctx context.Context) error {
	log := logger.Get()

	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return err
	}

	ix := index.New(st, index.WithRecentWindow(cfg.RecentWindowDays, cfg.RecentCap))
	idx, err := ix.Build(ctx, cfg.Now())
	if err != nil {
		return err
	}

	exporter, err := site.NewExporter(cfg.OutputDir)
	if err != nil {
		return err
	}
	if err := exporter.Export(ctx, idx, st); err != nil {
		return err
	}

	if flagCommentary {
		if cfg.AIApiKey == "" {
			log.Warn().Msg("Commentary requested but AI_API_KEY is not set, skipping")
			return nil
		}
		generateCommentary(ctx, st, exporter, idx.Recent)
	}

	return nil
}

// generateCommentary produces commentary for each distinct date in the
// recent window. Results are cached per date, so rebuilding an unchanged
// archive costs no API calls.
func generateCommentary(ctx context.Context, st *store.Store, exporter *site.Exporter, recent []models.RecentItem) {
	log := logger.Get()

	var cc cache.CommentaryCache
	if rc, err := cache.NewRedisCache(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, commentary cache is in-memory for this run")
		cc = cache.NewMemoryCache()
	} else {
		cc = rc
	}
	defer cc.Close()

	commentator := ai.NewCommentator(cfg.AIApiKey, cfg.AIModel, cc, cfg.CommentaryTTL)

	seen := make(map[string]struct{})
	for _, item := range recent {
		if _, done := seen[item.Date]; done {
			continue
		}
		seen[item.Date] = struct{}{}

		if err := ctx.Err(); err != nil {
			log.Warn().Msg("Commentary generation cancelled")
			return
		}

		rec, err := st.Read(item.Date)
		if err != nil {
			log.Warn().Err(err).Str("date", item.Date).Msg("Skipping commentary for unreadable record")
			continue
		}
		text, err := commentator.DailyCommentary(ctx, item.Date, rec)
		if err != nil {
			log.Warn().Err(err).Str("date", item.Date).Msg("Commentary generation failed")
			continue
		}
		if text == "" {
			continue
		}
		if err := exporter.WriteCommentary(item.Date, text); err != nil {
			log.Warn().Err(err).Str("date", item.Date).Msg("Failed to write commentary file")
		}
	}
}
