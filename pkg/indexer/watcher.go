package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a workspace for changes and re-extracts files
// incrementally.
//
// **Features:**
//   - Debouncing - groups rapid saves of one file into a single re-extract
//   - Selective - only touches changed files, never rescans the workspace
//   - Hash-aware - a save that leaves the bytes unchanged reuses the cached
//     extraction result
//
// **Usage:**
//
//	watcher := NewFileWatcher(processor, indexer, DefaultWatchOptions(), logger)
//	if err := watcher.Start(root, DefaultScanOptions()); err != nil { ... }
//	defer watcher.Stop()
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	processor *Processor
	indexer   *MessageIndexer
	logger    *slog.Logger
	options   WatchOptions

	root        string
	scanInclude []string

	// OnChange, when set, is invoked after the index changed for a path.
	// Used by watch mode to rewrite the catalog.
	OnChange func(path string)

	// Debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(
	processor *Processor,
	indexer *MessageIndexer,
	options WatchOptions,
	logger *slog.Logger,
) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}

	return &FileWatcher{
		watcher:        watcher,
		processor:      processor,
		indexer:        indexer,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and all its non-ignored subdirectories.
// scanOptions decides which files are worth re-extracting on change.
func (fw *FileWatcher) Start(rootPath string, scanOptions ScanOptions) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.root = rootPath
	fw.scanInclude = scanOptions.Include
	fw.mu.Unlock()

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on error
		}
		if !d.IsDir() {
			return nil
		}
		if fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.logger.Info("File watcher started", "root", rootPath)

	go fw.eventLoop()

	return nil
}

// Stop stops the file watcher. Idempotent.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}

	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if fw.shouldIgnore(path) {
		return
	}

	// New directories need to be watched for events inside them.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				fw.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !fw.matchesInclude(path) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		fw.debounceReextract(path)

	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		fw.removeFile(path)
	}
}

// debounceReextract schedules a re-extract after the debounce delay. Rapid
// saves of the same file collapse into one run.
func (fw *FileWatcher) debounceReextract(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	fw.debounceTimers[path] = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.reextractFile(path)

			fw.debounceMu.Lock()
			delete(fw.debounceTimers, path)
			fw.debounceMu.Unlock()
		},
	)
}

// reextractFile re-runs extraction for one file. If the content hash matches
// a cached result the tokenize/extract step is skipped.
func (fw *FileWatcher) reextractFile(path string) {
	fw.logger.Debug("Re-extracting file", "file", path)

	fw.processor.InvalidateFile(path)

	data, hash, err := fw.processor.ReadAndHash(path)
	if err != nil {
		fw.logger.Warn("Failed to read changed file", "file", path, "error", err)
		return
	}

	if prev, ok := fw.indexer.GetFile(path); ok && prev.ContentHash == hash {
		fw.logger.Debug("Content unchanged, skipping", "file", path)
		return
	}

	fm := &FileMessages{
		FilePath:    path,
		ContentHash: hash,
		Timestamp:   time.Now().UnixMilli(),
	}

	if cached, ok := fw.indexer.CachedResult(hash); ok {
		fm.Result = cached
	} else {
		ext, err := fw.processor.newExtractor()
		if err != nil {
			fw.logger.Warn("Failed to build extractor", "error", err)
			return
		}
		res, err := fw.processor.extract(ext, data)
		if err != nil {
			fw.logger.Warn("Failed to extract changed file", "file", path, "error", err)
			return
		}
		fm.Result = res
	}

	if fw.indexer.AddFile(fm) {
		fw.logger.Info("File re-extracted",
			"file", path,
			"messages", fm.Result.MessageCount(),
			"skipped", len(fm.Result.Skipped))
		fw.notifyChange(path)
	}
}

func (fw *FileWatcher) removeFile(path string) {
	if _, ok := fw.indexer.GetFile(path); !ok {
		return
	}
	fw.logger.Info("Removing file from index", "file", path)
	fw.processor.InvalidateFile(path)
	fw.indexer.RemoveFile(path)
	fw.notifyChange(path)
}

func (fw *FileWatcher) notifyChange(path string) {
	if fw.OnChange != nil {
		fw.OnChange(path)
	}
}

// matchesInclude reports whether the path is one the scan would pick up.
func (fw *FileWatcher) matchesInclude(path string) bool {
	if len(fw.scanInclude) == 0 {
		return true
	}
	rel := fw.relPath(path)
	for _, pattern := range fw.scanInclude {
		if m, _ := doublestar.PathMatch(pattern, rel); m {
			return true
		}
	}
	return false
}

// shouldIgnore checks a path against the ignore patterns.
func (fw *FileWatcher) shouldIgnore(path string) bool {
	rel := fw.relPath(path)
	for _, pattern := range fw.options.IgnorePatterns {
		if m, _ := doublestar.PathMatch(pattern, rel); m {
			return true
		}
	}

	switch filepath.Base(path) {
	case "node_modules", ".git", "vendor":
		return true
	}
	return false
}

func (fw *FileWatcher) relPath(path string) string {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingReextracts: pending,
		IsRunning:         running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingReextracts int
	IsRunning         bool
}
