// Package app implements the news-bot command line interface.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "fetch":
		return runFetch(args[1:])
	case "run":
		return runDaemon(args[1:])
	case "serve":
		return runServe(args[1:])
	case "cache":
		return runCache(args[1:])
	case "stats":
		return runStats(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "news-bot CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  news-bot <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  fetch   Run one poll cycle and exit")
	fmt.Fprintln(os.Stderr, "  run     Poll on a schedule until interrupted")
	fmt.Fprintln(os.Stderr, "  serve   Start the ops HTTP server (with the scheduler by default)")
	fmt.Fprintln(os.Stderr, "  cache   Inspect and prune the embedding caches")
	fmt.Fprintln(os.Stderr, "  stats   Print history and cache totals")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"news-bot <command> -h\" for command-specific flags.")
}
