package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/art-dzd/news-bot/internal/cli"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Cycle timeout")
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := rt.service.RunCycle(ctx)
	if err != nil {
		rt.logger.Error().Err(err).Msg("poll cycle ended with errors")
		fmt.Fprintf(os.Stderr, "Cycle finished with errors: %v\n", err)
		return 1
	}

	fmt.Printf("portal_fetched=%d portal_new=%d candidates=%d\n",
		result.PortalFetched, result.PortalNew, result.Candidates)
	fmt.Printf("semantic=%d keyword=%d renamed=%d filtered=%d skipped=%d\n",
		result.SemanticAccepted, result.KeywordAccepted, result.Renamed,
		result.FilteredOut, result.SkippedSeen)
	fmt.Printf("flipped_sources=%d delivered=%d\n", result.FlippedSources, result.Delivered)

	return 0
}
