package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsarchive/internal/dateutil"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill <start> [end]",
	Short: "Fetch a historical date range into the store",
	Long: `Fetch every missing day in [start, end]. When end is omitted it
defaults to today. The effective end is always capped at one day before the
earliest date already stored, so repeated runs shrink the remaining gap.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		start := args[0]
		end := dateutil.FormatKey(cfg.Now())
		if len(args) == 2 {
			end = args[1]
		}

		c, err := newCrawler()
		if err != nil {
			return err
		}

		stats, err := c.Backfill(ctx, start, end)
		if err != nil {
			return err
		}
		fmt.Println("backfill: " + stats.Summary())
		return nil
	},
}
