package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/art-dzd/news-bot/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rt, err := newRuntime(envLoader, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	report := rt.service.Stats()

	fmt.Printf("portal items:      %d (%d in target feed)\n", report.PortalItems, report.PortalInFeed)
	fmt.Printf("match records:     %d (%d semantic, %d keyword)\n",
		report.MatchRecords, report.SemanticMatches, report.KeywordMatches)
	fmt.Printf("analyzed URLs:     %d\n", report.AnalyzedURLs)
	fmt.Printf("candidate cache:   %d\n", report.CandidateCache)
	fmt.Printf("reference cache:   %d\n", report.ReferenceCache)

	return 0
}
