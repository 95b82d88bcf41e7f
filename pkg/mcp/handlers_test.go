package mcp

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgscan/msgscan/pkg/catalog"
	"github.com/msgscan/msgscan/pkg/extractor"
	"github.com/msgscan/msgscan/pkg/tokenizer"
	"github.com/msgscan/msgscan/pkg/util"
)

// --- helpers ---

func testServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.Build("/ws", extractor.DefaultPattern, []catalog.FileResult{
		{
			File: "src/a.php",
			Categories: map[string][]string{
				"default": {"greeting.hello", "greeting.bye"},
				"app":     {"app.title"},
			},
			Skipped: []catalog.SkippedEntry{
				{Line: 9, Source: "$this->translate($id)"},
			},
		},
	})

	tkz := tokenizer.New(util.NewLogger(util.LoggerConfig{
		Level:  util.LevelError,
		Format: util.FormatText,
		Output: io.Discard,
	}))
	t.Cleanup(tkz.Close)

	return NewServer(catalog.NewQueryService(cat), tkz, extractor.Config{}, nil)
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "list_categories":
		handler = s.handleListCategories
	case "get_messages":
		handler = s.handleGetMessages
	case "list_skipped":
		handler = s.handleListSkipped
	case "extract_source":
		handler = s.handleExtractSource
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_categories ---

func TestHandleListCategories(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_categories", nil))
	assert.False(t, result.IsError)

	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "app", cats[0]["name"])
	assert.Equal(t, float64(1), cats[0]["message_count"])
	assert.Equal(t, "default", cats[1]["name"])
	assert.Equal(t, float64(2), cats[1]["message_count"])
}

// --- get_messages ---

func TestHandleGetMessages(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_messages", map[string]any{"category": "default"}))
	assert.False(t, result.IsError)

	var resp struct {
		Category string   `json:"category"`
		Messages []string `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Equal(t, "default", resp.Category)
	assert.Equal(t, []string{"greeting.hello", "greeting.bye"}, resp.Messages)
}

func TestHandleGetMessages_UnknownCategory(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_messages", map[string]any{"category": "nope"}))
	assert.True(t, result.IsError)
}

func TestHandleGetMessages_MissingCategory(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_messages", nil))
	assert.True(t, result.IsError)
}

// --- list_skipped ---

func TestHandleListSkipped(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_skipped", nil))
	assert.False(t, result.IsError)

	var resp struct {
		Count   int                   `json:"count"`
		Skipped []catalog.SkippedSite `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "src/a.php", resp.Skipped[0].File)
	assert.Equal(t, 9, resp.Skipped[0].Line)
	assert.Equal(t, "$this->translate($id)", resp.Skipped[0].Source)
}

// --- extract_source ---

func TestHandleExtractSource(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("extract_source", map[string]any{
		"source": `<?php $this->translate('adhoc.msg', [], 'app'); $this->translate($x);`,
	}))
	assert.False(t, result.IsError)

	var res extractor.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.Equal(t, []string{"adhoc.msg"}, res.Messages["app"])
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "$this->translate($x)", res.Skipped[0].Source)
}

func TestHandleExtractSource_AddsOpenTag(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("extract_source", map[string]any{
		"source": `$this->translate('bare.msg');`,
	}))
	assert.False(t, result.IsError)

	var res extractor.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.Equal(t, []string{"bare.msg"}, res.Messages["default"])
}

func TestHandleExtractSource_CustomPattern(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("extract_source", map[string]any{
		"source":           `Lang::get('custom.msg');`,
		"pattern":          "Lang::get",
		"default_category": "web",
	}))
	assert.False(t, result.IsError)

	var res extractor.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.Equal(t, []string{"custom.msg"}, res.Messages["web"])
}

func TestHandleExtractSource_InvalidPattern(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("extract_source", map[string]any{
		"source":  `$this->translate('x');`,
		"pattern": "t",
	}))
	assert.True(t, result.IsError)
}

func TestHandleExtractSource_MissingSource(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("extract_source", nil))
	assert.True(t, result.IsError)
}
