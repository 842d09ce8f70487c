package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultsFilePath is the defaults file read by simulate and generate.
var defaultsFilePath = "defaults.yaml"

// PacingPreset describes a named pacing configuration in defaults.yaml.
type PacingPreset struct {
	Speed     float64 `yaml:"speed"`
	TimeScale float64 `yaml:"time_scale"`
	Jitter    float64 `yaml:"jitter"`
}

// GeneratorDefaults holds the default bounds for generated process sets.
type GeneratorDefaults struct {
	MaxArrival  int `yaml:"max_arrival"`
	MaxBurst    int `yaml:"max_burst"`
	MaxPriority int `yaml:"max_priority"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version   string                  `yaml:"version"`
	Presets   map[string]PacingPreset `yaml:"presets"`
	Generator GeneratorDefaults       `yaml:"generator"`
}

// builtinDefaults is used when no defaults file is present.
var builtinDefaults = Config{
	Version:   "1",
	Presets:   map[string]PacingPreset{"classroom": {Speed: 1.0, TimeScale: 1.0}},
	Generator: GeneratorDefaults{MaxArrival: 10, MaxBurst: 8, MaxPriority: 5},
}

// loadDefaultsConfig parses a defaults file with strict field checking.
// A missing file yields the built-in defaults.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return builtinDefaults, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML %s: %w", path, err)
	}
	return cfg, nil
}

// GetPacingPreset returns the named preset, or nil if it is not defined.
func GetPacingPreset(path, name string) (*PacingPreset, error) {
	cfg, err := loadDefaultsConfig(path)
	if err != nil {
		return nil, err
	}
	if p, ok := cfg.Presets[name]; ok {
		return &p, nil
	}
	return nil, nil
}
