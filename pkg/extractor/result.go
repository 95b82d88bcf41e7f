package extractor

import (
	"strings"

	"github.com/msgscan/msgscan/pkg/token"
)

// SkippedCall is a call site that matched the translator pattern but could
// not be resolved to a literal message id, or had unbalanced brackets. It is
// reported for manual review instead of being dropped.
type SkippedCall struct {
	// Line is the source line the matched prefix starts on.
	Line int `json:"line"`

	// Source is the call reconstructed from its tokens, pattern prefix
	// through closing parenthesis.
	Source string `json:"source"`
}

// Result is the outcome of one Extract call.
type Result struct {
	// Messages maps category name to the message ids used under it, in
	// call-site order. Duplicates are preserved: each call site contributes
	// one entry.
	Messages map[string][]string `json:"messages"`

	// Skipped lists call sites needing manual review, in call-site order.
	Skipped []SkippedCall `json:"skipped,omitempty"`
}

func newResult() *Result {
	return &Result{Messages: make(map[string][]string)}
}

func (r *Result) add(category, id string) {
	r.Messages[category] = append(r.Messages[category], id)
}

func (r *Result) skip(line int, source string) {
	r.Skipped = append(r.Skipped, SkippedCall{Line: line, Source: source})
}

// HasSkipped reports whether any call site was skipped.
func (r *Result) HasSkipped() bool {
	return len(r.Skipped) > 0
}

// MessageCount returns the total number of extracted message entries across
// all categories, duplicates included.
func (r *Result) MessageCount() int {
	n := 0
	for _, ids := range r.Messages {
		n += len(ids)
	}
	return n
}

// renderSource rebuilds source text from tokens. Whitespace was discarded at
// tokenization, so a space is re-inserted only between two word-like tokens
// to keep identifiers from fusing; punctuation and operators join directly.
func renderSource(tokens []token.Token) string {
	var b strings.Builder
	prev := ""
	for _, tk := range tokens {
		if tk.Text == "" {
			continue
		}
		if prev != "" && isWordByte(prev[len(prev)-1]) && isWordByte(tk.Text[0]) {
			b.WriteByte(' ')
		}
		b.WriteString(tk.Text)
		prev = tk.Text
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
