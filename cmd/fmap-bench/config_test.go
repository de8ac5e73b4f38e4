package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bench.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func Test_LoadConfig_Returns_Defaults_When_No_Path_Given(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, validateConfig(cfg), "defaults must validate")
}

func Test_LoadConfig_Overlays_JWCC_File_On_Defaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{
		// comments and trailing commas are fine (JWCC)
		"sizes": [500],
		"engines": ["flatmap", "btree"],
		"seed": 42,
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []int{500}, cfg.Sizes)
	assert.Equal(t, []string{"flatmap", "btree"}, cfg.Engines)
	assert.Equal(t, uint64(42), cfg.Seed)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultConfig().Workloads, cfg.Workloads)
	assert.Equal(t, DefaultConfig().Lookups, cfg.Lookups)
}

func Test_LoadConfig_Rejects_Invalid_JSONC(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{"sizes": [`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func Test_LoadConfig_Rejects_Missing_Explicit_File(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.jsonc"))
	require.Error(t, err)
}

func Test_ValidateConfig_Rejects_Unknown_Names_And_Bad_Numbers(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Sizes = []int{0}
	assert.Error(t, validateConfig(cfg))

	cfg = DefaultConfig()
	cfg.Workloads = []string{"sideways"}
	assert.Error(t, validateConfig(cfg))

	cfg = DefaultConfig()
	cfg.Engines = []string{"skiplist"}
	assert.Error(t, validateConfig(cfg))

	cfg = DefaultConfig()
	cfg.Lookups = -1
	assert.Error(t, validateConfig(cfg))
}
