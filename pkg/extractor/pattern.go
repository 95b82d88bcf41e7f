package extractor

import (
	"errors"
	"fmt"

	"github.com/msgscan/msgscan/pkg/token"
)

// ErrPatternTooShort is returned by New when the configured pattern fragment
// tokenizes to fewer than 2 tokens. A one-token pattern would fire on every
// bare identifier followed by a parenthesis, so it is rejected outright.
var ErrPatternTooShort = errors.New("translator pattern must contain at least 2 tokens")

// FragmentTokenizer tokenizes a short source fragment. It is the only piece
// of the tokenizer the extractor depends on; pattern compilation must use the
// same lexis as the subject source so the compiled tokens compare equal.
type FragmentTokenizer interface {
	TokenizeFragment(fragment string) ([]token.Token, error)
}

// compilePattern tokenizes the pattern fragment and strips the synthetic
// open-tag token the fragment tokenizer prepends, plus any comments. The
// remaining tokens form the exact prefix a call must carry.
func compilePattern(ft FragmentTokenizer, fragment string) ([]token.Token, error) {
	toks, err := ft.TokenizeFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize pattern %q: %w", fragment, err)
	}

	if len(toks) > 0 && toks[0].Kind == token.KindTag {
		toks = toks[1:]
	}

	pattern := make([]token.Token, 0, len(toks))
	for _, tk := range toks {
		if tk.Kind == token.KindComment {
			continue
		}
		pattern = append(pattern, tk)
	}

	if len(pattern) < 2 {
		return nil, fmt.Errorf("pattern %q: %w", fragment, ErrPatternTooShort)
	}
	return pattern, nil
}
