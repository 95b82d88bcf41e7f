// Package token defines the lexical token stream consumed by the extractor.
//
// A token is either punctuation (a single source character, Kind == KindPunct)
// or a significant token carrying a kind, its raw text, and the source line it
// starts on. Whitespace never appears in a token stream; comments are emitted
// by the tokenizer but filtered before any matching logic sees them.
package token

// Kind classifies a token.
type Kind string

const (
	// KindPunct is a single-character punctuation token: ( ) [ ] { } , . ; etc.
	KindPunct Kind = "punct"

	// KindTag is an open or close tag (<?php, <?=, ?>).
	KindTag Kind = "tag"

	// KindName is an identifier or keyword.
	KindName Kind = "name"

	// KindVariable is a variable including its sigil ($this, $user).
	KindVariable Kind = "variable"

	// KindString is a string literal including its surrounding quotes.
	KindString Kind = "string"

	// KindNumber is an integer or float literal.
	KindNumber Kind = "number"

	// KindOperator is a multi-character operator (->, ::, =>, ==).
	KindOperator Kind = "operator"

	// KindText is inline content outside the language tags (e.g. HTML).
	KindText Kind = "text"

	// KindComment is a line or block comment. Never passed to matching.
	KindComment Kind = "comment"
)

// Token is one lexical unit of source text.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// Punct constructs a punctuation token.
func Punct(text string, line int) Token {
	return Token{Kind: KindPunct, Text: text, Line: line}
}

// IsPunct reports whether the token is punctuation with the given text.
func (t Token) IsPunct(text string) bool {
	return t.Kind == KindPunct && t.Text == text
}

// Equal reports whether two tokens match for pattern-matching purposes.
// Punctuation matches punctuation with identical text; significant tokens
// match on identical kind and identical text. A punctuation token never
// equals a significant token.
func (t Token) Equal(other Token) bool {
	if (t.Kind == KindPunct) != (other.Kind == KindPunct) {
		return false
	}
	if t.Kind == KindPunct {
		return t.Text == other.Text
	}
	return t.Kind == other.Kind && t.Text == other.Text
}
