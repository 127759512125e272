package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/art-dzd/news-bot/internal/cli"
)

func runCache(args []string) int {
	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	prune := fs.Bool("prune", false, "Prune stale entries after reporting")
	force := fs.Bool("force", false, "Prune without asking for confirmation")
	ageDays := fs.Int("age", 0, "Override the pruning age in days (0 uses CACHE_MAX_AGE_DAYS)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *ageDays < 0 {
		fmt.Fprintln(os.Stderr, "--age must be >= 0")
		return 2
	}

	rt, err := newRuntime(envLoader, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	if *ageDays > 0 {
		rt.cfg.CacheMaxAgeDays = *ageDays
	}

	candidates, references := rt.service.CacheSizes()
	candidatesStale, referencesStale := rt.service.CacheAgeCounts()

	fmt.Printf("candidate cache:  %d entries, %d older than %d days\n",
		candidates, candidatesStale, rt.cfg.CacheMaxAgeDays)
	fmt.Printf("reference cache:  %d entries, %d older than %d days\n",
		references, referencesStale, rt.cfg.CacheMaxAgeDays)

	if !*prune {
		return 0
	}
	if candidatesStale == 0 && referencesStale == 0 {
		fmt.Println("nothing to prune")
		return 0
	}

	if !*force && !confirm(fmt.Sprintf("Prune entries older than %d days not referenced by history?", rt.cfg.CacheMaxAgeDays)) {
		fmt.Println("aborted")
		return 0
	}

	stats := rt.service.CleanupCaches()
	fmt.Printf("candidate cache:  %d -> %d\n", stats.CandidatesBefore, stats.CandidatesAfter)
	fmt.Printf("reference cache:  %d -> %d\n", stats.ReferencesBefore, stats.ReferencesAfter)

	return 0
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
