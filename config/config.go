// Package config provides the run configuration for the interpreter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/glyphvm/core"
	"gopkg.in/yaml.v3"
)

// Config describes how a program is run.
type Config struct {
	// Program is the path of the program file.
	Program  string       `yaml:"program" toml:"program"`
	Debug    bool         `yaml:"debug" toml:"debug"`
	MaxSteps uint64       `yaml:"max_steps" toml:"max_steps"`
	Engine   EngineConfig `yaml:"engine" toml:"engine"`
	ISA      ISAConfig    `yaml:"isa" toml:"isa"`
}

// EngineConfig selects cycle-driven execution on a serial engine.
type EngineConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	FreqMHz float64 `yaml:"freq_mhz" toml:"freq_mhz"`
}

// ISAConfig overrides instruction symbols by mnemonic.
type ISAConfig struct {
	Name    string            `yaml:"name" toml:"name"`
	Symbols map[string]string `yaml:"symbols" toml:"symbols"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Program: "program",
		Engine: EngineConfig{
			FreqMHz: 1000,
		},
		ISA: ISAConfig{
			Name: "Glyph Default ISA",
		},
	}
}

// Load reads a YAML or TOML file, picked by extension, on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later.
func (c Config) Validate() error {
	if c.Engine.Enabled && c.Engine.FreqMHz <= 0 {
		return fmt.Errorf("engine frequency must be positive, got %v MHz", c.Engine.FreqMHz)
	}

	if _, err := c.BuildISA(); err != nil {
		return err
	}

	return nil
}

// BuildISA returns the instruction set with the configured overrides.
func (c Config) BuildISA() (*core.ISA, error) {
	name := c.ISA.Name
	if name == "" {
		name = "Glyph Default ISA"
	}
	return core.BuildISA(name, c.ISA.Symbols)
}

// Freq returns the engine frequency.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.Engine.FreqMHz) * sim.MHz
}

// Apply copies the run settings onto a core builder.
func (c Config) Apply(b core.Builder) core.Builder {
	return b.
		WithDebug(c.Debug).
		WithMaxSteps(c.MaxSteps).
		WithFreq(c.Freq())
}
