package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsarchive/internal/crawler"
	"newsarchive/internal/fetch"
	"newsarchive/internal/logger"
	"newsarchive/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch missing days between the latest stored date and today, then rebuild",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		c, err := newCrawler()
		if err != nil {
			return err
		}

		stats, err := c.Sync(ctx)
		if err != nil {
			return err
		}
		fmt.Println("sync: " + stats.Summary())

		// Individual date failures are reported, not fatal; the rebuild
		// still runs over whatever landed.
		return runBuild(ctx)
	},
}

func newCrawler() (*crawler.Crawler, error) {
	if cfg.FetchBaseURL == "" {
		return nil, fmt.Errorf("FETCH_BASE_URL is required for crawling")
	}

	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return nil, err
	}

	logger.Get().Info().
		Str("base_url", cfg.FetchBaseURL).
		Dur("delay", cfg.FetchDelay).
		Str("timezone", cfg.Timezone).
		Msg("Crawler configured")

	return crawler.New(st, fetch.NewClient(cfg.FetchBaseURL),
		crawler.WithDelay(cfg.FetchDelay),
		crawler.WithLookback(cfg.LookbackDays),
		crawler.WithProgressEvery(cfg.ProgressEvery),
		crawler.WithClock(cfg.Now),
	), nil
}
