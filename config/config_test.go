package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/logger"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"RHYTHMDEX_PARAMS", "LOG_LEVEL", "LOG_PATH", "PORT", "WORKERS",
		"MAX_SLOT_DX", "MIN_SLOT_SPACING", "MAX_BEAM_GAP", "MAX_BEAM_DISTANCE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(DefaultParams(), cfg.Params)
	assert.Equal(constants.DefaultMaxSlotDx, cfg.Params.MaxSlotDx)
	assert.Equal(logger.InfoLevel, cfg.LogLevel)
	assert.Equal("8080", cfg.Port)
	assert.Greater(cfg.Workers, 0)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_SLOT_DX", "2.5")
	t.Setenv("WORKERS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2.5, cfg.Params.MaxSlotDx)
	assert.Equal(3, cfg.Workers)
	assert.Equal(logger.DebugLevel, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"MAX_BEAM_GAP": "wide",
		"WORKERS":      "0",
		"MAX_SLOT_DX":  "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParamsFileOverridesEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_slot_dx: 0.8\nmax_split_loops: 4\n"), 0644))
	t.Setenv("RHYTHMDEX_PARAMS", path)
	t.Setenv("MAX_SLOT_DX", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(0.8, cfg.Params.MaxSlotDx)
	assert.Equal(4, cfg.Params.MaxSplitLoops)
	assert.Equal(constants.DefaultMaxBeamGap, cfg.Params.MaxBeamGap)
}

func TestParamsFileMissing(t *testing.T) {
	p := DefaultParams()
	err := LoadParamsFile(filepath.Join(t.TempDir(), "nope.yaml"), &p)
	assert.Error(t, err)
}
