package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgscan/msgscan/pkg/catalog"
)

func writeWorkspaceFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunScan_WritesCatalog(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "src/a.php", `<?php
$this->translate('greeting.hello');
$this->translate('app.title', [], 'app');
$this->translate($dynamic);
`)
	catalogPath := filepath.Join(root, "out", "catalog.json")

	code := runScan([]string{"--root", root, "--catalog", catalogPath})
	require.Equal(t, 0, code)

	cat, err := catalog.LoadFromFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting.hello"}, cat.Categories["default"])
	assert.Equal(t, []string{"app.title"}, cat.Categories["app"])
	require.Len(t, cat.Skipped, 1)
	assert.Equal(t, "src/a.php", cat.Skipped[0].File)
}

func TestRunScan_ConfigFilePatternAndGlobs(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, configFileName, `
pattern: "Lang::get"
default_category: web
include:
  - "app/**/*.php"
catalog_path: build/catalog.json
`)
	writeWorkspaceFile(t, root, "app/a.php", `<?php Lang::get('web.msg');`)
	writeWorkspaceFile(t, root, "other/b.php", `<?php Lang::get('excluded.msg');`)

	code := runScan([]string{"--root", root})
	require.Equal(t, 0, code)

	cat, err := catalog.LoadFromFile(filepath.Join(root, "build", "catalog.json"))
	require.NoError(t, err)
	assert.Equal(t, "Lang::get", cat.Pattern)
	assert.Equal(t, []string{"web.msg"}, cat.Categories["web"])
	assert.NotContains(t, cat.Categories["web"], "excluded.msg")
}

func TestRunScan_BadRoot(t *testing.T) {
	code := runScan([]string{"--root", filepath.Join(t.TempDir(), "missing")})
	assert.Equal(t, 1, code)
}

func TestRunScan_BadPattern(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "a.php", `<?php t('x');`)

	code := runScan([]string{"--root", root, "--pattern", "t"})
	assert.Equal(t, 1, code)
}

func TestRunDiff(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "a.php", `<?php $this->translate('stable.msg');`)
	catalogPath := filepath.Join(root, "catalog.json")

	require.Equal(t, 0, runScan([]string{"--root", root, "--catalog", catalogPath}))

	// Unchanged workspace: no diff.
	assert.Equal(t, 0, runDiff([]string{"--root", root, "--catalog", catalogPath}))

	// New message: diff reported via exit code 2.
	writeWorkspaceFile(t, root, "b.php", `<?php $this->translate('new.msg');`)
	assert.Equal(t, 2, runDiff([]string{"--root", root, "--catalog", catalogPath}))
}

func TestRunDiff_MissingCatalog(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "a.php", `<?php $this->translate('x');`)

	assert.Equal(t, 1, runDiff([]string{"--root", root}))
}
