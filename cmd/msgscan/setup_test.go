package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeServerEntry_FreshConfig(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", nil)
	require.NoError(t, err)
	require.NotNil(t, out)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))
	servers := config["mcpServers"].(map[string]any)
	entry := servers["msgscan"].(map[string]any)
	assert.Equal(t, "msgscan", entry["command"])
	assert.Equal(t, []any{"serve"}, entry["args"])
}

func TestMergeServerEntry_PreservesExistingServers(t *testing.T) {
	existing := []byte(`{"mcpServers":{"other":{"command":"other-tool"}}}`)

	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))
	servers := config["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other")
	assert.Contains(t, servers, "msgscan")
}

func TestMergeServerEntry_AlreadyConfigured(t *testing.T) {
	existing := []byte(`{"mcpServers":{"msgscan":{"command":"msgscan"}}}`)

	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestMergeServerEntry_ExtraFields(t *testing.T) {
	out, err := mergeServerEntry(nil, "servers", map[string]string{"type": "stdio"})
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal(out, &config))
	entry := config["servers"].(map[string]any)["msgscan"].(map[string]any)
	assert.Equal(t, "stdio", entry["type"])
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("{not json"), "mcpServers", nil)
	assert.Error(t, err)
}

func TestPromptYesNo(t *testing.T) {
	var out strings.Builder

	assert.True(t, promptYesNo(strings.NewReader("y\n"), &out, "ok?"))
	assert.True(t, promptYesNo(strings.NewReader("\n"), &out, "ok?"))
	assert.True(t, promptYesNo(strings.NewReader("YES\n"), &out, "ok?"))
	assert.False(t, promptYesNo(strings.NewReader("n\n"), &out, "ok?"))
	// EOF defaults to yes.
	assert.True(t, promptYesNo(strings.NewReader(""), &out, "ok?"))
}

func TestExecuteSetup_NoAgents(t *testing.T) {
	origLookPath, origStat := lookPathFunc, statFunc
	defer func() { lookPathFunc, statFunc = origLookPath, origStat }()

	lookPathFunc = func(string) (string, error) { return "", assert.AnError }
	statFunc = func(string) (os.FileInfo, error) { return nil, assert.AnError }

	var out strings.Builder
	executeSetup(strings.NewReader(""), &out, false)
	assert.Contains(t, out.String(), "No supported AI agents detected")
}
