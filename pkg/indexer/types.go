package indexer

import (
	"time"

	"github.com/msgscan/msgscan/pkg/extractor"
)

// FileMessages is the unit of indexing: everything extracted from one file.
type FileMessages struct {
	// FilePath is the absolute path to the file.
	FilePath string

	// Result holds the extracted messages and skipped calls.
	Result *extractor.Result

	// ContentHash is the SHA-256 of the file content, used to detect
	// unchanged files in watch mode.
	ContentHash string

	// Timestamp is when the file was indexed (Unix milliseconds).
	Timestamp int64
}

// MessageIndexerConfig configures the message indexer.
type MessageIndexerConfig struct {
	// MaxCachedResults caps the LRU cache of content-hash → extraction
	// result entries. Default: 1000.
	MaxCachedResults int

	// Debug enables verbose logging.
	Debug bool
}

// DefaultMessageIndexerConfig returns the default configuration.
func DefaultMessageIndexerConfig() MessageIndexerConfig {
	return MessageIndexerConfig{
		MaxCachedResults: 1000,
	}
}

// MessageIndexerStats provides statistics about the indexer state.
type MessageIndexerStats struct {
	// IndexedFiles is the number of files currently in the index.
	IndexedFiles int

	// TotalMessages is the number of message entries across all files,
	// duplicates included.
	TotalMessages int

	// TotalSkipped is the number of skipped call sites across all files.
	TotalSkipped int

	// CacheHits / CacheMisses count result-cache lookups.
	CacheHits   int64
	CacheMisses int64
}

// ScanOptions configures workspace scanning behavior.
type ScanOptions struct {
	// Include patterns (glob syntax, e.g. "**/*.php").
	// If empty, defaults to PHP extensions.
	Include []string

	// Exclude patterns (glob syntax, e.g. "vendor/**").
	Exclude []string
}

// DefaultScanOptions returns recommended scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.php",
			"**/*.phtml",
		},
		Exclude: []string{
			"vendor/**",
			".git/**",
			"node_modules/**",
			"cache/**",
			"var/cache/**",
		},
	}
}

// ScanStats contains statistics about a workspace scan.
type ScanStats struct {
	FilesDiscovered int
	FilesIndexed    int
	FilesFailed     int

	// MessagesExtracted counts message entries, duplicates included.
	MessagesExtracted int

	// SkippedCalls counts call sites queued for manual review.
	SkippedCalls int

	DiscoveryTimeMs int64
	IndexingTimeMs  int64
	TotalTimeMs     int64
	FilesPerSecond  float64
	SuccessRate     float64
	WorkerCount     int

	// Errors contains per-file failures (if any).
	Errors []FileError

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is invoked as files finish indexing.
type ProgressCallback func(indexed, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs groups rapid changes to one file into a single re-extract.
	// Default: 200ms.
	DebounceMs int

	// IgnorePatterns are glob patterns never re-extracted on change.
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp",
			"**/*.tmp",
			"**/*~",
			".git/**",
			"vendor/**",
		},
	}
}
