package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigParsesSearchAndAnalyzeSections(t *testing.T) {
	path := writeTempConfig(t, `
[search]
hash_size_mb = 128
analyse_mode = true

[analyze]
multi_pv = 3
threads = 1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.Search.HashSizeMB)
	require.True(t, cfg.Search.AnalyseMode)
	require.Equal(t, 3, cfg.Analyze.MultiPV)

	opts := cfg.Options()
	require.Equal(t, 128, opts.HashSizeMB)
	require.True(t, opts.AnalyseMode)

	ao := cfg.DefaultAnalyzeOptions()
	require.Equal(t, 3, ao.MultiPV)
	require.Equal(t, 1, ao.Threads)
}

func TestDefaultAnalyzeOptionsFillsZeroFields(t *testing.T) {
	path := writeTempConfig(t, `
[search]
hash_size_mb = 64
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	ao := cfg.DefaultAnalyzeOptions()
	require.Equal(t, 1, ao.Threads, "a zero threads field must default to 1")
	require.Equal(t, 1, ao.MultiPV, "a zero multi_pv field must default to 1")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
