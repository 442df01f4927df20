package main

import (
	"fmt"

	"github.com/bitrise-io/go-resumable/chunkuploader"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

func newUploadCommand(logger log.Logger) *cobra.Command {
	var (
		serverURL   string
		chunkSize   string
		concurrency int
		identifier  string
	)

	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a file in resumable chunks",
		Long: `Upload a file in resumable chunks. Chunks the server already holds are
skipped, so running the same upload again resumes it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := chunkuploader.ParseChunkSize(chunkSize)
			if err != nil {
				return err
			}

			uploader := chunkuploader.New(serverURL, chunkuploader.Config{
				ChunkSize:   size,
				Concurrency: concurrency,
			}, logger)
			defer uploader.CloseIdleConnections()

			result, err := uploader.UploadFile(cmd.Context(), args[0], identifier)
			if err != nil {
				return err
			}
			if !result.Complete {
				return fmt.Errorf("upload of %s is incomplete", result.Identifier)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Identifier)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "http://localhost:8080", "Base URL of the resumable server")
	cmd.Flags().StringVar(&chunkSize, "chunk-size", "1MiB", "Chunk size, e.g. 512KiB or 5MB")
	cmd.Flags().IntVar(&concurrency, "concurrency", chunkuploader.DefaultConcurrency(), "Parallel chunk uploads")
	cmd.Flags().StringVar(&identifier, "identifier", "", "Upload identifier (default: <size>-<sanitized file name>)")

	return cmd
}

func newDownloadCommand(logger log.Logger) *cobra.Command {
	var (
		serverURL string
		purge     bool
	)

	cmd := &cobra.Command{
		Use:   "download [identifier] [destination]",
		Short: "Download a reassembled upload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploader := chunkuploader.New(serverURL, chunkuploader.DefaultConfig(), logger)
			defer uploader.CloseIdleConnections()

			if err := uploader.Download(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			logger.Donef("Downloaded %s to %s", args[0], args[1])

			if purge {
				return uploader.Delete(cmd.Context(), args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "http://localhost:8080", "Base URL of the resumable server")
	cmd.Flags().BoolVar(&purge, "purge", false, "Delete the chunks from the server after downloading")

	return cmd
}
