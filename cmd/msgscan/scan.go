package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/msgscan/msgscan/pkg/catalog"
	"github.com/msgscan/msgscan/pkg/indexer"
)

// runScan is the entry point for `msgscan scan`.
func runScan(args []string) int {
	flags := parseFlags(args)

	p, err := newPipeline(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	defer p.close()

	stats, err := p.scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: scan failed: %v\n", err)
		return 1
	}

	cat := p.indexer.Catalog(p.root, p.pattern())

	if flags["json"] == "true" {
		// Catalog to stdout instead of a file.
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat); err != nil {
			fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
			return 1
		}
	} else {
		if err := cat.SaveToFile(p.catalog); err != nil {
			fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
			return 1
		}
		fmt.Printf("Catalog written to %s\n", p.catalog)
	}

	printScanSummary(stats, cat)
	return 0
}

// printScanSummary reports counts and the manual-review skip list on stderr
// so it never mixes with --json catalog output.
func printScanSummary(stats *indexer.ScanStats, cat *catalog.Catalog) {
	fmt.Fprintf(os.Stderr, "Scanned %d files in %dms: %d messages in %d categories\n",
		stats.FilesIndexed, stats.TotalTimeMs, cat.MessageCount(), len(cat.Categories))

	for _, fe := range stats.Errors {
		fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", fe.FilePath, fe.Error)
	}

	if len(cat.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d call sites need manual review:\n", len(cat.Skipped))
		for _, sk := range cat.Skipped {
			fmt.Fprintf(os.Stderr, "  %s:%d  %s\n", sk.File, sk.Line, sk.Source)
		}
	}
}

// runDiff is the entry point for `msgscan diff`: scan the workspace and
// compare against the saved catalog without touching it.
func runDiff(args []string) int {
	flags := parseFlags(args)

	p, err := newPipeline(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	defer p.close()

	old, err := catalog.LoadFromFile(p.catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}

	if _, err := p.scan(); err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: scan failed: %v\n", err)
		return 1
	}

	diff := catalog.Compare(old, p.indexer.Catalog(p.root, p.pattern()))
	if diff.Empty() {
		fmt.Println("Catalog is up to date.")
		return 0
	}

	for category, ids := range diff.Added {
		for _, id := range ids {
			fmt.Printf("+ %s: %s\n", category, id)
		}
	}
	for category, ids := range diff.Removed {
		for _, id := range ids {
			fmt.Printf("- %s: %s\n", category, id)
		}
	}
	return 2
}
