package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bitrise-io/go-resumable/resumable"
	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-resumable/resumablehttp"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(envRepo env.Repository, logger log.Logger) *cobra.Command {
	var (
		configPath string
		envFile    string
		addr       string
		stagingDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chunk endpoints",
		Long: `Serve the chunk endpoints of a resumable store.

The store is configured by the optional YAML file given with --config, and by
the RESUMABLE_* environment variables which take precedence over the file.
Variables from --env-file are loaded without overriding the process environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			}

			cfg, err := resumable.LoadConfig(configPath, envRepo)
			if err != nil {
				return err
			}

			store, err := resumable.NewFromConfig(ctx, cfg, logger)
			if err != nil {
				return err
			}

			params := resumablehttp.Params{}
			if cfg.Backend == resumable.BackendMemory {
				memory, ok := storeBackend(store)
				if !ok {
					return errors.New("memory backend is not accessible")
				}
				params.Stager = resumablehttp.NewMemoryStager(memory, "/staging")
			} else if stagingDir != "" {
				params.Stager, err = resumablehttp.NewDiskStager(stagingDir)
				if err != nil {
					return err
				}
			}

			handler, err := resumablehttp.New(store, logger, params)
			if err != nil {
				return err
			}

			stopSweeper := store.StartSweeper(cfg.SweepAfter, sweepInterval(cfg.SweepAfter))
			defer stopSweeper()

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Warnf("Shutdown: %s", err)
				}
			}()

			logger.Infof("Serving %s chunk storage on %s (chunks in %s)", cfg.Backend, addr, store.TempDir())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Donef("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path of the YAML config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path of a .env file with RESUMABLE_* variables")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&stagingDir, "staging-dir", "", "Directory uploaded chunks are staged in before they are stored (default: a new temporary directory)")

	return cmd
}

// sweepInterval checks a few times within every expiry period, but at most once a minute.
func sweepInterval(sweepAfter time.Duration) time.Duration {
	interval := sweepAfter / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func storeBackend(store *resumable.Store) (*storage.Memory, bool) {
	memory, ok := store.Backend().(*storage.Memory)
	return memory, ok
}
