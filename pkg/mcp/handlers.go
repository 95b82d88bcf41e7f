package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/msgscan/msgscan/pkg/extractor"
)

// jsonResult marshals v and wraps it as a text result, the mcp-go convention
// for structured responses.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func (s *Server) handleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.query.Categories())
}

func (s *Server) handleGetMessages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	category, ok := stringArg(args, "category")
	if !ok || category == "" {
		return mcp.NewToolResultError("category parameter is required"), nil
	}

	ids, ok := s.query.Messages(category)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown category: %s", category)), nil
	}

	return jsonResult(map[string]any{
		"category": category,
		"messages": ids,
	})
}

func (s *Server) handleListSkipped(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skipped := s.query.Skipped()
	return jsonResult(map[string]any{
		"count":   len(skipped),
		"skipped": skipped,
	})
}

func (s *Server) handleExtractSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	source, ok := stringArg(args, "source")
	if !ok || source == "" {
		return mcp.NewToolResultError("source parameter is required"), nil
	}

	cfg := s.cfg
	if pattern, ok := stringArg(args, "pattern"); ok && pattern != "" {
		cfg.Pattern = pattern
	}
	if category, ok := stringArg(args, "default_category"); ok && category != "" {
		cfg.DefaultCategory = category
	}

	ext, err := extractor.New(cfg, s.tokenizer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pattern: %v", err)), nil
	}

	// Bare snippets tokenize to inert text without an opening tag.
	if !strings.Contains(source, "<?") {
		source = "<?php " + source
	}

	tokens, err := s.tokenizer.Tokenize([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}

	res := ext.Extract(tokens)
	return jsonResult(res)
}
