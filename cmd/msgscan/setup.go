package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// AgentDef describes how to detect and configure one MCP client.
type AgentDef struct {
	ID          string
	DisplayName string
	Method      string            // "cli" or "file"
	Binary      string            // for CLI agents: binary name on PATH
	DirMarker   string            // for file-based agents: dir that indicates presence
	ConfigPath  string            // JSON config file to merge into
	ServersKey  string            // "servers" (VS Code) or "mcpServers" (others)
	ExtraFields map[string]string // extra JSON fields, e.g. "type": "stdio"
}

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def          AgentDef
	AlreadySetup bool
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat

var agentRegistry = []AgentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: "cli", Binary: "claude",
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: "file", DirMarker: ".vscode",
		ConfigPath:  filepath.Join(".vscode", "mcp.json"),
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: "file", DirMarker: ".cursor",
		ConfigPath: filepath.Join(".cursor", "mcp.json"),
		ServersKey: "mcpServers",
	},
}

// detectAgents scans the system for MCP clients worth configuring.
func detectAgents() []DetectedAgent {
	var detected []DetectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case "cli":
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{
					Def:          def,
					AlreadySetup: isConfigured(".mcp.json", "mcpServers"),
				})
			}

		case "file":
			if _, err := statFunc(def.DirMarker); err == nil {
				detected = append(detected, DetectedAgent{
					Def:          def,
					AlreadySetup: isConfigured(def.ConfigPath, def.ServersKey),
				})
			}
		}
	}

	return detected
}

// isConfigured checks whether a msgscan entry already exists in a JSON
// config file.
func isConfigured(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers["msgscan"]
	return exists
}

// mergeServerEntry adds a "msgscan" entry under serversKey in the existing
// JSON (or fresh JSON when existing is empty) and returns the merged bytes.
// Returns nil, nil if msgscan is already configured.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers["msgscan"]; exists {
		return nil, nil
	}

	entry := map[string]any{
		"command": "msgscan",
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	servers["msgscan"] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureCLIAgent runs `<binary> mcp add` at project scope.
func configureCLIAgent(def AgentDef) error {
	cmd := exec.Command(def.Binary, "mcp", "add", "--scope", "project", "msgscan", "--", "msgscan", "serve")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// configureFileAgent reads, merges, and writes the JSON config file.
func configureFileAgent(def AgentDef) error {
	if err := os.MkdirAll(filepath.Dir(def.ConfigPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(def.ConfigPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, def.ExtraFields)
	if err != nil {
		return err
	}
	if merged == nil {
		return nil // already configured
	}

	return os.WriteFile(def.ConfigPath, merged, 0644)
}

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return true // default yes on EOF
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// runSetup is the entry point for `msgscan setup`.
func runSetup(args []string) {
	flags := parseFlags(args)
	executeSetup(os.Stdin, os.Stdout, flags["auto"] == "true")
}

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(r io.Reader, w io.Writer, auto bool) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	for _, d := range detected {
		if d.AlreadySetup {
			continue
		}
		if !auto {
			if !promptYesNo(r, w, fmt.Sprintf("%s — add msgscan MCP server? [Y/n]", d.Def.DisplayName)) {
				fmt.Fprintln(w, "  skipped")
				continue
			}
		}

		var err error
		switch d.Def.Method {
		case "cli":
			err = configureCLIAgent(d.Def)
		case "file":
			err = configureFileAgent(d.Def)
		}
		if err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			continue
		}
		fmt.Fprintf(w, "  + %s configured\n", d.Def.DisplayName)
	}
}
