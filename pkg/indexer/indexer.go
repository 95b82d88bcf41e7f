// Package indexer discovers workspace files, runs them through the
// tokenizer/extractor pipeline in parallel, and keeps an in-memory index of
// per-file extraction results that a catalog can be built from at any time.
package indexer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/msgscan/msgscan/pkg/catalog"
	"github.com/msgscan/msgscan/pkg/extractor"
)

// MessageIndexer holds the extraction results for every indexed file.
//
// **Architecture:**
//   - files map is the authoritative index: FilePath → FileMessages
//   - LRU cache keyed by content hash lets watch mode reuse a result when a
//     save event did not actually change the bytes
//
// **Thread Safety:**
//   - sync.RWMutex around the index, atomic counters for statistics
//
// **Usage:**
//
//	idx := NewMessageIndexer(DefaultMessageIndexerConfig(), logger)
//	idx.AddFile(fileMessages)
//	cat := idx.Catalog("/workspace", "$this->translate")
//	defer idx.Close()
type MessageIndexer struct {
	// Primary storage: FilePath → extraction result for that file.
	files map[string]*FileMessages

	// Result cache: ContentHash → Result. Lets a re-save of identical
	// content skip tokenization entirely.
	resultCache *lru.Cache[string, *extractor.Result]

	mu sync.RWMutex

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	config MessageIndexerConfig
	logger *slog.Logger
}

// NewMessageIndexer creates an indexer ready for use. Call Close when done.
func NewMessageIndexer(config MessageIndexerConfig, logger *slog.Logger) *MessageIndexer {
	if config.MaxCachedResults == 0 {
		config.MaxCachedResults = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, *extractor.Result](config.MaxCachedResults)
	if err != nil {
		// Only reachable with a negative size.
		panic(fmt.Sprintf("failed to create result cache: %v", err))
	}

	mi := &MessageIndexer{
		files:       make(map[string]*FileMessages, 1000),
		resultCache: cache,
		config:      config,
		logger:      logger,
	}

	logger.Debug("MessageIndexer initialized", "max_cached_results", config.MaxCachedResults)
	return mi
}

// AddFile records a file's extraction result, replacing any previous entry
// for the same path. Returns false when the index already holds an entry
// with the same content hash, meaning nothing changed.
func (mi *MessageIndexer) AddFile(fm *FileMessages) bool {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	if prev, ok := mi.files[fm.FilePath]; ok && prev.ContentHash == fm.ContentHash {
		return false
	}

	mi.files[fm.FilePath] = fm
	mi.resultCache.Add(fm.ContentHash, fm.Result)

	if mi.config.Debug {
		mi.logger.Debug("Indexed file",
			"path", fm.FilePath,
			"messages", fm.Result.MessageCount(),
			"skipped", len(fm.Result.Skipped))
	}
	return true
}

// CachedResult looks up a previously computed result by content hash.
func (mi *MessageIndexer) CachedResult(contentHash string) (*extractor.Result, bool) {
	res, ok := mi.resultCache.Get(contentHash)
	if ok {
		mi.cacheHits.Add(1)
	} else {
		mi.cacheMisses.Add(1)
	}
	return res, ok
}

// GetFile returns the indexed entry for a path.
func (mi *MessageIndexer) GetFile(path string) (*FileMessages, bool) {
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	fm, ok := mi.files[path]
	return fm, ok
}

// RemoveFile drops a file from the index. The hash-keyed result cache entry
// is left to age out on its own.
func (mi *MessageIndexer) RemoveFile(path string) {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	delete(mi.files, path)

	if mi.config.Debug {
		mi.logger.Debug("Removed file", "path", path)
	}
}

// Catalog builds a catalog from everything currently indexed. File paths in
// the catalog are made relative to source where possible so catalogs stay
// stable across checkouts.
func (mi *MessageIndexer) Catalog(source, pattern string) *catalog.Catalog {
	mi.mu.RLock()
	results := make([]catalog.FileResult, 0, len(mi.files))
	for path, fm := range mi.files {
		fr := catalog.FileResult{
			File:       relativeTo(source, path),
			Categories: fm.Result.Messages,
		}
		for _, sk := range fm.Result.Skipped {
			fr.Skipped = append(fr.Skipped, catalog.SkippedEntry{
				Line:   sk.Line,
				Source: sk.Source,
			})
		}
		results = append(results, fr)
	}
	mi.mu.RUnlock()

	return catalog.Build(source, pattern, results)
}

// GetStats returns current indexer statistics.
func (mi *MessageIndexer) GetStats() MessageIndexerStats {
	mi.mu.RLock()
	indexed := len(mi.files)
	messages := 0
	skipped := 0
	for _, fm := range mi.files {
		messages += fm.Result.MessageCount()
		skipped += len(fm.Result.Skipped)
	}
	mi.mu.RUnlock()

	return MessageIndexerStats{
		IndexedFiles:  indexed,
		TotalMessages: messages,
		TotalSkipped:  skipped,
		CacheHits:     mi.cacheHits.Load(),
		CacheMisses:   mi.cacheMisses.Load(),
	}
}

// Close releases the indexer's resources. The indexer cannot be used after.
func (mi *MessageIndexer) Close() {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	mi.files = nil
	mi.resultCache.Purge()
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
