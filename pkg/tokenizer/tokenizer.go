// Package tokenizer turns PHP source text into the flat token stream the
// extractor consumes.
//
// Parsing uses tree-sitter with the PHP grammar; the concrete syntax tree is
// flattened to tokens rather than walked structurally. Literal nodes (strings,
// numbers, variables, comments) are emitted atomically; everything else is
// descended to its leaves. Single-character anonymous leaves become
// punctuation tokens, multi-character ones operators. Whitespace never
// appears in the output.
//
// tree-sitter recovers from malformed input, so tokenization succeeds on
// sources a real interpreter would reject — the extractor's own recovery
// semantics handle the rest.
package tokenizer

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/msgscan/msgscan/pkg/token"
	"github.com/msgscan/msgscan/pkg/util"
)

// atomicKinds are node kinds emitted as a single token without descending
// into their children (a string node contains quote and content children the
// token stream must not see individually).
var atomicKinds = map[string]token.Kind{
	"string":          token.KindString,
	"encapsed_string": token.KindString,
	"heredoc":         token.KindString,
	"nowdoc":          token.KindString,
	"integer":         token.KindNumber,
	"float":           token.KindNumber,
	"variable_name":   token.KindVariable,
	"comment":         token.KindComment,
	"php_tag":         token.KindTag,
	"text":            token.KindText,
}

// Tokenizer tokenizes PHP source. Safe for concurrent use: parsers are
// drawn from an internal pool. Call Close when done to release them.
type Tokenizer struct {
	pool   *parserPool
	logger *slog.Logger
}

// New creates a Tokenizer with a lazily-filled parser pool.
// A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Tokenizer {
	if logger == nil {
		logger = slog.Default()
	}
	lang := ts.NewLanguage(tsphp.LanguagePHP())
	return &Tokenizer{
		pool:   newParserPool(lang, util.GetOptimalPoolSize(), logger),
		logger: logger,
	}
}

// Tokenize parses source and returns its flattened token stream.
func (t *Tokenizer) Tokenize(source []byte) ([]token.Token, error) {
	parser, err := t.pool.acquire()
	if err != nil {
		return nil, err
	}
	defer t.pool.release(parser)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source (%d bytes)", len(source))
	}
	defer tree.Close()

	tokens := make([]token.Token, 0, len(source)/4)
	collect(tree.RootNode(), source, &tokens)
	return tokens, nil
}

// TokenizeFragment tokenizes a short source fragment such as a translator
// call prefix. The fragment is wrapped in an open tag, which appears as the
// leading tag token — pattern compilation discards it.
func (t *Tokenizer) TokenizeFragment(fragment string) ([]token.Token, error) {
	return t.Tokenize([]byte("<?php " + fragment))
}

// Close releases all pooled parsers. The Tokenizer cannot be used afterwards.
func (t *Tokenizer) Close() {
	t.pool.close()
}

// collect flattens the syntax tree below node into tokens.
func collect(node *ts.Node, source []byte, out *[]token.Token) {
	kind := node.Kind()
	if k, ok := atomicKinds[kind]; ok {
		text := node.Utf8Text(source)
		if text != "" {
			*out = append(*out, token.Token{Kind: k, Text: text, Line: lineOf(node)})
		}
		return
	}

	count := node.ChildCount()
	if count == 0 {
		// Zero-width "missing" nodes inserted by error recovery carry no
		// text; they are not tokens.
		if text := node.Utf8Text(source); text != "" {
			*out = append(*out, classifyLeaf(node, text))
		}
		return
	}

	for i := uint(0); i < count; i++ {
		collect(node.Child(i), source, out)
	}
}

// classifyLeaf maps a leaf node to a token. Anonymous leaves are the
// grammar's fixed lexemes: one character is punctuation, more is an operator
// (->, ::, =>, ...). Named leaves default to names — unknown kinds stay inert
// data as far as matching is concerned.
func classifyLeaf(node *ts.Node, text string) token.Token {
	line := lineOf(node)

	if !node.IsNamed() {
		switch text {
		case "<?php", "<?=", "?>":
			return token.Token{Kind: token.KindTag, Text: text, Line: line}
		}
		if len(text) == 1 {
			return token.Punct(text, line)
		}
		return token.Token{Kind: token.KindOperator, Text: text, Line: line}
	}

	return token.Token{Kind: token.KindName, Text: text, Line: line}
}

func lineOf(node *ts.Node) int {
	return int(node.StartPosition().Row) + 1
}
