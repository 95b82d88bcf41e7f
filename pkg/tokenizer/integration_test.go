package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgscan/msgscan/pkg/extractor"
)

// End-to-end: real tokenizer feeding the extractor.

func newPipeline(t *testing.T) (*Tokenizer, *extractor.Extractor) {
	t.Helper()
	tkz := New(nil)
	t.Cleanup(tkz.Close)

	ext, err := extractor.New(extractor.Config{}, tkz)
	require.NoError(t, err)
	return tkz, ext
}

func TestPipeline_RealSource(t *testing.T) {
	tkz, ext := newPipeline(t)

	source := []byte(`<?php
class Greeter {
    public function hello() {
        echo $this->translate("greeting.hello");
        echo $this->translate("hi" . "there", [], "app");
        echo $this->translate($dynamic);
    }
}`)

	toks, err := tkz.Tokenize(source)
	require.NoError(t, err)

	res := ext.Extract(toks)
	assert.Equal(t, map[string][]string{
		"default": {"greeting.hello"},
		"app":     {"hithere"},
	}, res.Messages)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 6, res.Skipped[0].Line)
	assert.Equal(t, "$this->translate($dynamic)", res.Skipped[0].Source)
}

func TestPipeline_NestedCalls(t *testing.T) {
	tkz, ext := newPipeline(t)

	source := []byte(`<?php
$this->translate("outer", [$this->translate("inner")]);`)

	toks, err := tkz.Tokenize(source)
	require.NoError(t, err)

	res := ext.Extract(toks)
	assert.Equal(t, map[string][]string{
		"default": {"outer", "inner"},
	}, res.Messages)
	assert.Empty(t, res.Skipped)
}

func TestPipeline_CommentsIgnored(t *testing.T) {
	tkz, ext := newPipeline(t)

	source := []byte(`<?php
// $this->translate("commented.out");
$this->translate("real");`)

	toks, err := tkz.Tokenize(source)
	require.NoError(t, err)

	res := ext.Extract(toks)
	assert.Equal(t, map[string][]string{"default": {"real"}}, res.Messages)
}

func TestPipeline_EscapedQuotes(t *testing.T) {
	tkz, ext := newPipeline(t)

	source := []byte(`<?php $this->translate('it\'s');`)
	toks, err := tkz.Tokenize(source)
	require.NoError(t, err)

	res := ext.Extract(toks)
	assert.Equal(t, map[string][]string{"default": {"it's"}}, res.Messages)
}
