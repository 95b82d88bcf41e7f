// Package mcp exposes the message catalog and the extraction pipeline over
// the Model Context Protocol, on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/msgscan/msgscan/pkg/catalog"
	"github.com/msgscan/msgscan/pkg/extractor"
	"github.com/msgscan/msgscan/pkg/mcplog"
	"github.com/msgscan/msgscan/pkg/tokenizer"
)

const serverVersion = "0.1.0-dev"

// Server is the MCP server for msgscan. It answers catalog queries against a
// previously generated catalog and runs ad-hoc extraction over source
// snippets.
type Server struct {
	mcpServer *server.MCPServer
	query     *catalog.QueryService
	tokenizer *tokenizer.Tokenizer
	cfg       extractor.Config
	logger    *mcplog.Logger // nil when call logging is disabled
}

// NewServer creates an MCP server backed by the given catalog query service.
// tkz and cfg drive the extract_source tool; logger may be nil.
func NewServer(qs *catalog.QueryService, tkz *tokenizer.Tokenizer, cfg extractor.Config, logger *mcplog.Logger) *Server {
	s := &Server{
		query:     qs,
		tokenizer: tkz,
		cfg:       cfg,
		logger:    logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("msgscan", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		server.ServerTool{Tool: getMessagesTool(), Handler: s.handleGetMessages},
		server.ServerTool{Tool: listSkippedTool(), Handler: s.handleListSkipped},
		server.ServerTool{Tool: extractSourceTool(), Handler: s.handleExtractSource},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
