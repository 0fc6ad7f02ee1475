package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPopulatesModFileConfig(t *testing.T) {
	path := writeTemp(t, `
[modfile]
search-path = [".", "build/mod"]
output-dir = "build/mod"
verify-checksum = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{".", "build/mod"}, cfg.ModFile.SearchPath)
	require.Equal(t, "build/mod", cfg.ModFile.OutputDir)
	require.True(t, cfg.ModFile.VerifyChecksum)
}

func TestLoadDefaultsSearchPathAndOutputDir(t *testing.T) {
	path := writeTemp(t, `[modfile]`+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"."}, cfg.ModFile.SearchPath)
	require.Equal(t, ".", cfg.ModFile.OutputDir)
}

func TestLoadSubmoduleAncestorTable(t *testing.T) {
	path := writeTemp(t, `
[submodule.impl]
ancestor = "shapes"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "shapes", cfg.Submodules["impl"])
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
