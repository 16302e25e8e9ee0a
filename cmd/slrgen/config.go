package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type config struct {
	Output outputConfig `toml:"output"`
	REPL   replConfig   `toml:"repl"`
}

type outputConfig struct {
	// Format is the format of a description written by the compile command. It is either json or yaml.
	Format string `toml:"format"`

	// Width is the line width of text tables.
	Width int `toml:"width"`
}

type replConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
}

func defaultConfig() *config {
	return &config{
		Output: outputConfig{
			Format: formatJSON,
			Width:  80,
		},
		REPL: replConfig{
			Prompt: "slrgen> ",
		},
	}
}

// loadConfig reads a TOML file over the default config. An empty path means the default config.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}

	_, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the config file %s: %w", path, err)
	}

	err = c.validate()
	if err != nil {
		return nil, fmt.Errorf("Invalid config file %s: %w", path, err)
	}

	return c, nil
}

func (c *config) validate() error {
	switch c.Output.Format {
	case formatJSON, formatYAML:
	default:
		return fmt.Errorf("output format must be %v or %v: %v", formatJSON, formatYAML, c.Output.Format)
	}
	if c.Output.Width <= 0 {
		return fmt.Errorf("output width must be positive: %v", c.Output.Width)
	}
	return nil
}
