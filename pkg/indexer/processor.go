package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/msgscan/msgscan/pkg/extractor"
	"github.com/msgscan/msgscan/pkg/tokenizer"
	"github.com/msgscan/msgscan/pkg/util"
)

// Processor turns one source file into a FileMessages record: read through
// the mmap cache, tokenize, extract. It is shared by the scan worker pool
// and watch mode.
//
// Extractor instances keep per-invocation state, so the Processor does not
// hold one; each worker (and each watch-mode re-extract) gets its own via
// newExtractor.
type Processor struct {
	tokenizer *tokenizer.Tokenizer
	cache     *util.FileCache
	cfg       extractor.Config
	logger    *slog.Logger
}

// NewProcessor validates the extraction config by compiling the pattern once
// and returns a ready Processor.
func NewProcessor(tkz *tokenizer.Tokenizer, cache *util.FileCache, cfg extractor.Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Fail configuration errors here, not in every worker.
	if _, err := extractor.New(cfg, tkz); err != nil {
		return nil, err
	}
	return &Processor{
		tokenizer: tkz,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// newExtractor builds a fresh extractor for one worker or one re-extract.
func (p *Processor) newExtractor() (*extractor.Extractor, error) {
	return extractor.New(p.cfg, p.tokenizer)
}

// ReadAndHash returns the file's content and its SHA-256 hex digest.
func (p *Processor) ReadAndHash(path string) ([]byte, string, error) {
	data, err := p.cache.Get(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// extract tokenizes data and runs ext over it.
func (p *Processor) extract(ext *extractor.Extractor, data []byte) (*extractor.Result, error) {
	tokens, err := p.tokenizer.Tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	return ext.Extract(tokens), nil
}

// process runs the full read → tokenize → extract pipeline for one file
// using the given extractor.
func (p *Processor) process(ext *extractor.Extractor, path string) (*FileMessages, error) {
	data, hash, err := p.ReadAndHash(path)
	if err != nil {
		return nil, err
	}
	res, err := p.extract(ext, data)
	if err != nil {
		return nil, err
	}
	return &FileMessages{
		FilePath:    path,
		Result:      res,
		ContentHash: hash,
		Timestamp:   time.Now().UnixMilli(),
	}, nil
}

// ProcessFile runs the full pipeline with a one-shot extractor. Used by
// watch mode; scan workers reuse a per-worker extractor instead.
func (p *Processor) ProcessFile(path string) (*FileMessages, error) {
	ext, err := p.newExtractor()
	if err != nil {
		return nil, err
	}
	return p.process(ext, path)
}

// InvalidateFile drops the file from the read cache so the next read sees
// fresh content.
func (p *Processor) InvalidateFile(path string) {
	p.cache.Invalidate(path)
}
