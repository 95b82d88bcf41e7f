// Package extractor finds translation calls in a lexical token stream and
// collects their literal message identifiers into a category → ids mapping.
//
// The extractor never evaluates source code. A call whose message id is not a
// string literal (or a concatenation of string/number literals), or whose
// parameter brackets are unbalanced, is recorded on a skip list with its
// reconstructed source text for manual review instead of being guessed at.
//
// Usage:
//
//	ext, err := extractor.New(extractor.Config{
//	    Pattern:         "$this->translate",
//	    DefaultCategory: "default",
//	}, tkz)
//	if err != nil {
//	    return err
//	}
//	res := ext.Extract(tokens)
//	// res.Messages: category → message ids (duplicates preserved)
//	// res.Skipped:  call sites needing manual review
package extractor

import (
	"github.com/msgscan/msgscan/pkg/token"
)

const (
	// DefaultPattern is the call prefix matched when Config.Pattern is empty.
	DefaultPattern = "$this->translate"

	// DefaultCategory is the category used when a call omits its category
	// argument and Config.DefaultCategory is empty.
	DefaultCategory = "default"
)

// Config holds the per-instance extraction settings. It is applied once in
// New; changing the pattern means building a new Extractor.
type Config struct {
	// DefaultCategory is used for calls that carry no category argument or
	// whose category argument is not a literal.
	DefaultCategory string

	// Pattern is a source fragment naming the call prefix, e.g.
	// "$this->translate" or "Lang::get". It is tokenized with the same
	// tokenizer used for subject source and must yield at least 2 tokens.
	Pattern string
}

// Extractor scans token streams for translation calls. A configured instance
// may be reused across many Extract calls, but a single instance must not run
// concurrent Extract invocations: the skip-list accessors reflect the most
// recent call only.
type Extractor struct {
	pattern         []token.Token
	defaultCategory string
	last            *Result
}

// New compiles the translator pattern and returns a ready Extractor.
// Returns an error wrapping ErrPatternTooShort if the pattern tokenizes to
// fewer than 2 tokens.
func New(cfg Config, ft FragmentTokenizer) (*Extractor, error) {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = DefaultCategory
	}

	pattern, err := compilePattern(ft, cfg.Pattern)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		pattern:         pattern,
		defaultCategory: cfg.DefaultCategory,
	}, nil
}

// Extract performs one left-to-right pass over tokens and returns the
// extraction result. Comment tokens are filtered out before matching.
// Malformed individual calls never abort the pass; they end up on the
// result's skip list.
func (e *Extractor) Extract(tokens []token.Token) *Result {
	res := newResult()
	s := scanner{
		pattern:         e.pattern,
		defaultCategory: e.defaultCategory,
		res:             res,
	}
	s.run(filterComments(tokens))
	e.last = res
	return res
}

// HasSkipped reports whether the most recent Extract recorded any calls it
// could not interpret. False before the first Extract.
func (e *Extractor) HasSkipped() bool {
	return e.last != nil && e.last.HasSkipped()
}

// SkippedEntries returns the skip list of the most recent Extract call.
// Nil before the first Extract.
func (e *Extractor) SkippedEntries() []SkippedCall {
	if e.last == nil {
		return nil
	}
	return e.last.Skipped
}

// filterComments drops comment tokens. The tokenizer never emits whitespace,
// so this is the only filtering the matcher needs.
func filterComments(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tk := range tokens {
		if tk.Kind == token.KindComment {
			continue
		}
		out = append(out, tk)
	}
	return out
}
