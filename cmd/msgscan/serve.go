package main

import (
	"fmt"
	"os"

	"github.com/msgscan/msgscan/pkg/catalog"
	"github.com/msgscan/msgscan/pkg/extractor"
	mcpserver "github.com/msgscan/msgscan/pkg/mcp"
	"github.com/msgscan/msgscan/pkg/mcplog"
	"github.com/msgscan/msgscan/pkg/tokenizer"
	"github.com/msgscan/msgscan/pkg/util"
)

// runServe is the entry point for `msgscan serve`: expose the catalog and
// ad-hoc extraction over MCP on stdio.
func runServe(args []string) int {
	flags := parseFlags(args)

	root := flags["root"]
	if root == "" {
		root = "."
	}

	cfg, err := loadProjectConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: failed to load %s: %v\n", configFileName, err)
		return 1
	}

	// Stdout carries the MCP transport; everything else goes to stderr.
	logCfg := util.DefaultLoggerConfig()
	if flags["verbose"] == "true" {
		logCfg.Level = util.LevelDebug
	}
	logger := util.NewLogger(logCfg)

	catalogPath := resolveCatalogPath(root, flags["catalog"], cfg)
	cat, err := catalog.LoadFromFile(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: failed to load catalog: %v\n", err)
		return 1
	}

	callLog, err := mcplog.NewLogger(resolve(flags["mcp-log"], cfg.MCPLogPath, ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: %v\n", err)
		return 1
	}
	defer callLog.Close()

	tkz := tokenizer.New(logger)
	defer tkz.Close()

	extCfg := extractor.Config{
		Pattern:         resolve(flags["pattern"], cfg.Pattern, cat.Pattern),
		DefaultCategory: resolve(flags["category"], cfg.DefaultCategory, ""),
	}

	srv := mcpserver.NewServer(catalog.NewQueryService(cat), tkz, extCfg, callLog)

	logger.Info("MCP server starting", "catalog", catalogPath, "messages", cat.MessageCount())
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "msgscan: server error: %v\n", err)
		return 1
	}
	return 0
}
