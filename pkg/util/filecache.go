package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides memory-mapped file access for the extraction pipeline.
// Source files are read once per scan and often re-read by the skipped-call
// report and watch mode; mapping them keeps repeat access cheap and lets the
// OS page data in on demand.
//
// Thread-safe: reads share an RWMutex, loads take it exclusively. Files that
// fail to mmap fall back to a plain read, cached the same way.
type FileCache struct {
	mu       sync.RWMutex
	mapped   map[string]mmap.MMap
	fallback map[string][]byte
	maxFiles int
	logger   *slog.Logger

	hits         int64
	misses       int64
	mmapFailures int64
}

// FileCacheStats is a point-in-time snapshot of cache counters.
type FileCacheStats struct {
	FilesCached  int
	Hits         int64
	Misses       int64
	MmapFailures int64
}

// NewFileCache creates a cache holding at most maxFiles mappings (0 means
// unlimited). Once full, further files are read without being cached.
// A nil logger falls back to slog.Default().
func NewFileCache(maxFiles int, logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		mapped:   make(map[string]mmap.MMap),
		fallback: make(map[string][]byte),
		maxFiles: maxFiles,
		logger:   logger,
	}
}

// Get returns the file's contents, mapping it on first access. The returned
// slice is backed by the mapping and must not be modified or retained past
// Invalidate/Close.
func (fc *FileCache) Get(path string) ([]byte, error) {
	fc.mu.RLock()
	if m, ok := fc.mapped[path]; ok {
		fc.mu.RUnlock()
		fc.mu.Lock()
		fc.hits++
		fc.mu.Unlock()
		return m, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.mu.RUnlock()
		fc.mu.Lock()
		fc.hits++
		fc.mu.Unlock()
		return data, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check: another goroutine may have loaded it while we waited.
	if m, ok := fc.mapped[path]; ok {
		fc.hits++
		return m, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.hits++
		return data, nil
	}

	fc.misses++

	// Cache full: serve the read without caching.
	if fc.maxFiles > 0 && len(fc.mapped)+len(fc.fallback) >= fc.maxFiles {
		return os.ReadFile(path)
	}

	return fc.load(path)
}

// load maps the file, falling back to a plain read when mmap fails.
// Must be called while holding mu.Lock.
func (fc *FileCache) load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	// Empty files can't be mapped.
	if stat.Size() == 0 {
		f.Close()
		fc.fallback[path] = []byte{}
		return []byte{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	// The descriptor is not needed after mapping.
	f.Close()
	if err != nil {
		fc.mmapFailures++
		fc.logger.Warn("mmap failed, using fallback", "file", path, "error", err)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap and fallback read failed for %q: %w", path, readErr)
		}
		fc.fallback[path] = data
		return data, nil
	}

	fc.mapped[path] = m
	return m, nil
}

// Invalidate drops a file from the cache, unmapping it if mapped. Used by
// watch mode when a file changes or disappears.
func (fc *FileCache) Invalidate(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if m, ok := fc.mapped[path]; ok {
		if err := m.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "file", path, "error", err)
		}
		delete(fc.mapped, path)
	}
	delete(fc.fallback, path)
}

// Size returns the number of currently cached files.
func (fc *FileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.mapped) + len(fc.fallback)
}

// Stats returns current cache counters.
func (fc *FileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return FileCacheStats{
		FilesCached:  len(fc.mapped) + len(fc.fallback),
		Hits:         fc.hits,
		Misses:       fc.misses,
		MmapFailures: fc.mmapFailures,
	}
}

// Close unmaps all cached files. The cache is empty but usable afterwards.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var firstErr error
	for path, m := range fc.mapped {
		if err := m.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "file", path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("unmap %q: %w", path, err)
			}
		}
	}

	fc.mapped = make(map[string]mmap.MMap)
	fc.fallback = make(map[string][]byte)
	return firstErr
}
