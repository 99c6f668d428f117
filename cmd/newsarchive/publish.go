package main

import (
	"github.com/spf13/cobra"

	"newsarchive/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the generated site data to the configured R2/S3 bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		pub, err := publish.New(ctx, cfg)
		if err != nil {
			return err
		}
		return pub.PublishDir(ctx, cfg.OutputDir)
	},
}
