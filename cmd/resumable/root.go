package main

import (
	"context"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

func newRootCommand(ctx context.Context, envRepo env.Repository, logger log.Logger) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "resumable",
		Short: "Resumable chunked uploads.",
		Long: `Serve resumable.js compatible chunked uploads, or upload and download
files through such a server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.EnableDebugLog(debug)
		},
	}
	rootCmd.SetContext(ctx)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logs")

	rootCmd.AddCommand(newServeCommand(envRepo, logger))
	rootCmd.AddCommand(newUploadCommand(logger))
	rootCmd.AddCommand(newDownloadCommand(logger))

	return rootCmd
}
