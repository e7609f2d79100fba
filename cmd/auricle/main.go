package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/aeronjl/auricle/config"
	"github.com/aeronjl/auricle/internal/app"
	"github.com/aeronjl/auricle/internal/cli"
	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(transcript.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(os.Stderr, "auricle: ", log.LstdFlags)

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(deps).ExecuteContext(ctx)
}
