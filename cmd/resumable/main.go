package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger()
	cmd := newRootCommand(ctx, env.NewRepository(), logger)
	if err := cmd.Execute(); err != nil {
		logger.Errorf("%s", err)
		stop()
		os.Exit(1)
	}
}
