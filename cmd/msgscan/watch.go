package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msgscan/msgscan/pkg/indexer"
)

// runWatch is the entry point for `msgscan watch`: one full scan, then the
// catalog is rewritten whenever a watched file changes.
func runWatch(args []string) int {
	flags := parseFlags(args)

	p, err := newPipeline(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	defer p.close()

	if _, err := p.scan(); err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: initial scan failed: %v\n", err)
		return 1
	}

	saveCatalog := func() {
		cat := p.indexer.Catalog(p.root, p.pattern())
		if err := cat.SaveToFile(p.catalog); err != nil {
			p.logger.Error("Failed to write catalog", "path", p.catalog, "error", err)
			return
		}
		p.logger.Info("Catalog updated",
			"path", p.catalog,
			"messages", cat.MessageCount(),
			"skipped", len(cat.Skipped))
	}
	saveCatalog()

	watcher, err := indexer.NewFileWatcher(p.processor, p.indexer, indexer.DefaultWatchOptions(), p.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	watcher.OnChange = func(string) { saveCatalog() }

	if err := watcher.Start(p.root, p.scanOpts); err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	defer watcher.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", p.root)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return 0
}
