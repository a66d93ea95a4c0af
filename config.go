package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/astei/mcschem/block"
)

// Config holds defaults for the command line flags.
type Config struct {
	Background        string `yaml:"background"`
	Author            string `yaml:"author"`
	Merge             bool   `yaml:"merge"`
	LitematicaVersion int32  `yaml:"litematica_version"`
	Workers           int    `yaml:"workers"`
}

func defaultConfig() *Config {
	return &Config{Background: "minecraft:air"}
}

// LoadConfig reads a YAML config file. An empty path falls back to
// MCSCHEM_CONFIG; when neither is set the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv("MCSCHEM_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if _, err := cfg.BackgroundBlock(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// BackgroundBlock parses the block used to fill gaps when regions are merged.
func (c *Config) BackgroundBlock() (block.Block, error) {
	if c.Background == "" {
		return block.Air(), nil
	}
	return block.Parse(c.Background)
}

// WorkerCount returns the number of region files read in parallel, with
// priority config -> MCSCHEM_WORKERS -> number of CPUs.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if env := os.Getenv("MCSCHEM_WORKERS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
