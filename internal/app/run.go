package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/art-dzd/news-bot/internal/cli"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	dryRun := fs.Bool("dry-run", false, "Evaluate and persist, but do not deliver")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rt, err := newRuntime(envLoader, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		rt.logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	if err := rt.service.Run(ctx); err != nil {
		rt.logger.Error().Err(err).Msg("poll loop failed")
		fmt.Fprintf(os.Stderr, "Poll loop failed: %v\n", err)
		return 1
	}

	return 0
}
