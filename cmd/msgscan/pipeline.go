package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/msgscan/msgscan/pkg/extractor"
	"github.com/msgscan/msgscan/pkg/indexer"
	"github.com/msgscan/msgscan/pkg/tokenizer"
	"github.com/msgscan/msgscan/pkg/util"
)

// pipeline bundles everything a scan needs, wired from flags and the
// project config.
type pipeline struct {
	root      string
	cfg       *ProjectConfig
	extCfg    extractor.Config
	logger    *slog.Logger
	tokenizer *tokenizer.Tokenizer
	cache     *util.FileCache
	processor *indexer.Processor
	indexer   *indexer.MessageIndexer
	scanOpts  indexer.ScanOptions
	catalog   string // resolved catalog path
}

// newPipeline resolves configuration and constructs the extraction pipeline.
func newPipeline(flags map[string]string) (*pipeline, error) {
	root := flags["root"]
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("workspace root is not a directory: %s", root)
	}

	cfg, err := loadProjectConfig(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configFileName, err)
	}

	logCfg := util.DefaultLoggerConfig()
	if flags["verbose"] == "true" {
		logCfg.Level = util.LevelDebug
	}
	logger := util.NewLogger(logCfg)
	util.SetDefault(logger)

	extCfg := extractor.Config{
		Pattern:         resolve(flags["pattern"], cfg.Pattern, ""),
		DefaultCategory: resolve(flags["category"], cfg.DefaultCategory, ""),
	}

	scanOpts := indexer.DefaultScanOptions()
	if len(cfg.Include) > 0 {
		scanOpts.Include = cfg.Include
	}
	if len(cfg.Exclude) > 0 {
		scanOpts.Exclude = cfg.Exclude
	}

	tkz := tokenizer.New(logger)
	cache := util.NewFileCache(0, logger)

	proc, err := indexer.NewProcessor(tkz, cache, extCfg, logger)
	if err != nil {
		tkz.Close()
		cache.Close()
		return nil, err
	}

	return &pipeline{
		root:      root,
		cfg:       cfg,
		extCfg:    extCfg,
		logger:    logger,
		tokenizer: tkz,
		cache:     cache,
		processor: proc,
		indexer:   indexer.NewMessageIndexer(indexer.DefaultMessageIndexerConfig(), logger),
		scanOpts:  scanOpts,
		catalog:   resolveCatalogPath(root, flags["catalog"], cfg),
	}, nil
}

// pattern returns the effective translator pattern for catalog metadata.
func (p *pipeline) pattern() string {
	if p.extCfg.Pattern != "" {
		return p.extCfg.Pattern
	}
	return extractor.DefaultPattern
}

func (p *pipeline) close() {
	p.indexer.Close()
	if err := p.cache.Close(); err != nil {
		p.logger.Warn("Failed to close file cache", "error", err)
	}
	p.tokenizer.Close()
}

// scan runs one full workspace scan into the pipeline's indexer.
func (p *pipeline) scan() (*indexer.ScanStats, error) {
	scanner := indexer.NewWorkspaceScanner(p.processor, p.indexer, p.logger)
	return scanner.ScanWorkspace(p.root, p.scanOpts, nil)
}
