package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/msgscan/msgscan/pkg/util"
)

// WorkspaceScanner scans entire workspaces in parallel.
//
// **Three-Phase Pipeline:**
//  1. File Discovery - walk the tree and find matching files
//  2. Parallel Processing - tokenize and extract using the worker pool
//  3. Indexing - store per-file results in MessageIndexer
//
// **Usage:**
//
//	scanner := NewWorkspaceScanner(processor, indexer, logger)
//	stats, err := scanner.ScanWorkspace(root, DefaultScanOptions(), nil)
type WorkspaceScanner struct {
	processor *Processor
	indexer   *MessageIndexer
	logger    *slog.Logger
}

// NewWorkspaceScanner creates a new workspace scanner.
func NewWorkspaceScanner(processor *Processor, indexer *MessageIndexer, logger *slog.Logger) *WorkspaceScanner {
	return &WorkspaceScanner{
		processor: processor,
		indexer:   indexer,
		logger:    logger,
	}
}

// ScanWorkspace discovers files under rootPath and extracts messages from
// each, in parallel. Per-file failures land in stats.Errors; only discovery
// or pool failures abort the scan.
func (ws *WorkspaceScanner) ScanWorkspace(
	rootPath string,
	options ScanOptions,
	progressCallback ProgressCallback,
) (*ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{
		StartTime: startTime,
		Errors:    make([]FileError, 0),
	}

	ws.logger.Info("Starting workspace scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := ws.discoverFiles(rootPath, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ws.logger.Info("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		ws.logger.Warn("No files found matching criteria")
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return stats, nil
	}

	indexingStart := time.Now()
	if err := ws.processFilesParallel(files, stats, progressCallback); err != nil {
		return nil, fmt.Errorf("file processing failed: %w", err)
	}
	stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	if stats.FilesIndexed > 0 && stats.IndexingTimeMs > 0 {
		stats.FilesPerSecond = float64(stats.FilesIndexed) / (float64(stats.IndexingTimeMs) / 1000.0)
	}
	if stats.FilesDiscovered > 0 {
		stats.SuccessRate = float64(stats.FilesIndexed) / float64(stats.FilesDiscovered)
	}

	ws.logger.Info("Workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"messages_extracted", stats.MessagesExtracted,
		"skipped_calls", stats.SkippedCalls,
		"duration_ms", stats.TotalTimeMs)

	return stats, nil
}

// discoverFiles walks the directory tree and returns all matching files.
func (ws *WorkspaceScanner) discoverFiles(rootPath string, options ScanOptions) ([]string, error) {
	var files []string

	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ws.logger.Warn("Walk error", "path", path, "error", err)
			return nil // Continue walking
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			matched, _ := doublestar.PathMatch(pattern, relPath)
			if matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(options.Include) > 0 {
			matched := false
			for _, pattern := range options.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

// processFilesParallel runs all files through the worker pool and indexes
// the results.
func (ws *WorkspaceScanner) processFilesParallel(
	files []string,
	stats *ScanStats,
	progressCallback ProgressCallback,
) error {
	totalFiles := len(files)

	// Worker count must not exceed the tokenizer's parser pool size.
	numWorkers := util.GetOptimalPoolSize()
	stats.WorkerCount = numWorkers

	pool := NewWorkerPool(numWorkers, ws.processor, ws.logger)
	pool.Start()
	defer pool.Stop()

	indexed := atomic.Int32{}
	failed := atomic.Int32{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The collector must be running BEFORE jobs are submitted: Submit blocks
	// when the jobs channel fills, and only the collector drains results.
	done := make(chan struct{})
	go func() {
		defer close(done)

		for {
			select {
			case <-ctx.Done():
				return

			case result, ok := <-pool.Results():
				if !ok {
					return
				}

				ws.indexer.AddFile(result.Messages)

				stats.MessagesExtracted += result.Messages.Result.MessageCount()
				stats.SkippedCalls += len(result.Messages.Result.Skipped)
				stats.FilesIndexed++

				count := indexed.Add(1)
				if progressCallback != nil {
					progressCallback(int(count), totalFiles, result.Messages.FilePath)
				}

				if int(count)+int(failed.Load()) >= totalFiles {
					cancel()
					return
				}

			case fileErr, ok := <-pool.Errors():
				if !ok {
					return
				}

				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++

				ws.logger.Warn("File processing failed",
					"file", fileErr.FilePath,
					"error", fileErr.Error)

				count := failed.Add(1)
				if int(indexed.Load())+int(count) >= totalFiles {
					cancel()
					return
				}
			}
		}
	}()

	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			return fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.FinishSubmitting()

	<-done
	return nil
}

// GetIndexer returns the underlying message indexer.
func (ws *WorkspaceScanner) GetIndexer() *MessageIndexer {
	return ws.indexer
}
