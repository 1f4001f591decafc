package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/logger"
)

// Params are the tuning values of the reconstruction passes. Geometric
// values are fractions of the staff interline.
type Params struct {
	MaxSlotDx        float64 `yaml:"max_slot_dx"`
	MinSlotSpacing   float64 `yaml:"min_slot_spacing"`
	MaxBeamGap       float64 `yaml:"max_beam_gap"`
	MaxBeamDistance  float64 `yaml:"max_beam_distance"`
	MaxMergeLoops    int     `yaml:"max_merge_loops"`
	MaxSplitLoops    int     `yaml:"max_split_loops"`
	MaxDurationLoops int     `yaml:"max_duration_loops"`
}

// Config holds everything the commands need.
type Config struct {
	Params     Params
	ParamsFile string
	LogLevel   logger.LogLevel
	LogPath    string
	Workers    int
	Port       string
}

// DefaultParams returns the built-in tuning values.
func DefaultParams() Params {
	return Params{
		MaxSlotDx:        constants.DefaultMaxSlotDx,
		MinSlotSpacing:   constants.DefaultMinSlotSpacing,
		MaxBeamGap:       constants.DefaultMaxBeamGap,
		MaxBeamDistance:  constants.DefaultMaxBeamDistance,
		MaxMergeLoops:    constants.DefaultMaxMergeLoops,
		MaxSplitLoops:    constants.DefaultMaxSplitLoops,
		MaxDurationLoops: constants.DefaultMaxDurationLoops,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

// Load reads a .env file if present, then the environment, then the YAML
// params file named by RHYTHMDEX_PARAMS. Environment variables already set
// take precedence over .env values; the params file overrides both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Params:     DefaultParams(),
		ParamsFile: getEnv("RHYTHMDEX_PARAMS", ""),
		LogLevel:   logger.LogLevel(getEnv("LOG_LEVEL", string(logger.InfoLevel))),
		LogPath:    getEnv("LOG_PATH", ""),
		Port:       getEnv("PORT", "8080"),
	}

	var err error
	if cfg.Workers, err = getEnvInt("WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}

	p := &cfg.Params
	floats := []struct {
		key string
		dst *float64
	}{
		{"MAX_SLOT_DX", &p.MaxSlotDx},
		{"MIN_SLOT_SPACING", &p.MinSlotSpacing},
		{"MAX_BEAM_GAP", &p.MaxBeamGap},
		{"MAX_BEAM_DISTANCE", &p.MaxBeamDistance},
	}
	for _, f := range floats {
		if *f.dst, err = getEnvFloat(f.key, *f.dst); err != nil {
			return nil, err
		}
	}

	if cfg.ParamsFile != "" {
		if err := LoadParamsFile(cfg.ParamsFile, p); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadParamsFile overlays the values found in a YAML file onto p. Keys
// missing from the file keep their current value.
func LoadParamsFile(path string, p *Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read params file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("failed to parse params file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values that would make a pass meaningless.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS must be greater than 0")
	}
	return c.Params.Validate()
}

func (p Params) Validate() error {
	positives := map[string]float64{
		"max_slot_dx":       p.MaxSlotDx,
		"min_slot_spacing":  p.MinSlotSpacing,
		"max_beam_gap":      p.MaxBeamGap,
		"max_beam_distance": p.MaxBeamDistance,
	}
	for name, v := range positives {
		if v <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}
	if p.MaxMergeLoops <= 0 || p.MaxSplitLoops <= 0 || p.MaxDurationLoops <= 0 {
		return fmt.Errorf("loop bounds must be greater than 0")
	}
	return nil
}
