package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/msgscan/msgscan/pkg/mcplog"
)

// loggingMiddleware records every tool call as a JSONL entry. Only installed
// when the server has a logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			s.logger.Record(req.Params.Name, req.GetArguments(), start, result, err)
			return result, err
		}
	}
}
