// Package config loads optional YAML settings for the harness, so CI setups
// can pin the watcher command instead of repeating flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Settings mirrors the YAML settings file:
//
//	watcher: ["./target/debug/examples/event_print"]
//	build: ["cargo", "build", "--example", "event_print"]
//	settle: 2s
//	stop_grace: 5s
//	strict: false
//
// Flags override any value set here.
type Settings struct {
	Watcher   []string `yaml:"watcher"`
	Build     []string `yaml:"build"`
	Settle    Duration `yaml:"settle"`
	StopGrace Duration `yaml:"stop_grace"`
	Strict    bool     `yaml:"strict"`
}

// Load reads the settings file at path. An empty path yields zero-value
// settings so callers can treat the file as strictly optional.
func Load(path string) (*Settings, error) {
	var s Settings
	if path == "" {
		return &s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &s, nil
}
