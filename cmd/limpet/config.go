package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/limpet/limpet"
)

// config sizes the engine and shapes formatted output. Loaded from a
// YAML file named by --config or the LIMPET_CONFIG environment
// variable; absent both, the defaults below apply.
type config struct {
	Engine engineSettings `yaml:"engine"`
	Format formatSettings `yaml:"format"`
}

// engineSettings maps onto limpet.New and SetMaxDepth.
type engineSettings struct {
	// StackDepth is the number of operand stack slots.
	StackDepth int `yaml:"stack_depth"`

	// BufferBytes is the size of the engine's memory region; the
	// stack is carved from it and the rest is arena.
	BufferBytes int `yaml:"buffer_bytes"`

	// MaxDepth is the nesting limit for reading and writing.
	MaxDepth int `yaml:"max_depth"`
}

// formatSettings shapes fmt output.
type formatSettings struct {
	// Indent is the per-level indentation string.
	Indent string `yaml:"indent"`

	// SortKeys orders object keys alphabetically when pretty-printing.
	SortKeys bool `yaml:"sort_keys"`
}

func defaultConfig() *config {
	return &config{
		Engine: engineSettings{
			StackDepth:  128,
			BufferBytes: 1 << 20,
			MaxDepth:    limpet.DefaultMaxDepth,
		},
		Format: formatSettings{
			Indent: "  ",
		},
	}
}

// loadConfig resolves the effective configuration: the explicit path,
// else LIMPET_CONFIG, else defaults.
func loadConfig(path string) *config {
	if path == "" {
		path = os.Getenv("LIMPET_CONFIG")
	}
	cfg := defaultConfig()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		fatal("load config %s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		fatal("config %s: %v", path, err)
	}
	return cfg
}

func (c *config) validate() error {
	var errs []error

	if c.Engine.StackDepth < 2 {
		errs = append(errs, fmt.Errorf("engine.stack_depth must be at least 2"))
	}
	if c.Engine.BufferBytes <= 0 {
		errs = append(errs, fmt.Errorf("engine.buffer_bytes must be positive"))
	}
	if c.Engine.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("engine.max_depth must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// newContext builds an engine sized by the configuration.
func newContext(cfg *config) *limpet.Context {
	c := limpet.New(cfg.Engine.StackDepth, cfg.Engine.BufferBytes)
	c.SetMaxDepth(cfg.Engine.MaxDepth)
	return c
}
