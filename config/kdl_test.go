package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadKDLMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadKDL(filepath.Join(t.TempDir(), "nope.kdl"))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxDepth)
}

func TestLoadKDLParsesScanBlockAndFilters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".picklevet.kdl")
	doc := `
scan {
    max_depth 3
    classify_overrides "overrides.kdl"
    fetch_timeout_seconds 10
}
include "*.pkl" "*.pt"
exclude "*_test.bin"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadKDL(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MaxDepth)
	require.Equal(t, "overrides.kdl", cfg.ClassifyOverridesPath)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
	require.Equal(t, []string{"*.pkl", "*.pt"}, cfg.Include)
	require.Equal(t, []string{"*_test.bin"}, cfg.Exclude)
}
