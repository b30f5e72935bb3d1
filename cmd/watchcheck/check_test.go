//go:build unix

package main

import (
	"strings"
	"testing"
	"time"

	"watchcheck/internal/config"
)

// =============================================================================
// Argument validation
// =============================================================================

// TestCheckArgCount tests that the check command demands exactly three
// positional arguments.
func TestCheckArgCount(t *testing.T) {
	tests := [][]string{
		{},
		{"actions.txt"},
		{"actions.txt", "expected.txt"},
		{"actions.txt", "expected.txt", "/base", "extra"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			cmd := newCheckCmd()
			cmd.SetArgs(args)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			if err := cmd.Execute(); err == nil {
				t.Errorf("Execute(%v) should fail arg validation", args)
			}
		})
	}
}

// =============================================================================
// Settings precedence
// =============================================================================

// TestApplySettings tests that flags win over the settings file and unset
// options inherit from it.
func TestApplySettings(t *testing.T) {
	settings := &config.Settings{
		Watcher:   []string{"./from-file"},
		Build:     []string{"make"},
		Settle:    config.Duration(3 * time.Second),
		StopGrace: config.Duration(7 * time.Second),
		Strict:    true,
	}

	t.Run("inherits unset options", func(t *testing.T) {
		opts := &checkOptions{}
		applySettings(opts, settings)

		if len(opts.watcher) != 1 || opts.watcher[0] != "./from-file" {
			t.Errorf("watcher = %v, want from settings", opts.watcher)
		}
		if opts.settle != 3*time.Second || opts.stopGrace != 7*time.Second {
			t.Errorf("durations = %v/%v, want from settings", opts.settle, opts.stopGrace)
		}
		if !opts.strict {
			t.Error("strict should be inherited")
		}
	})

	t.Run("flags override", func(t *testing.T) {
		opts := &checkOptions{
			watcher: []string{"./from-flag"},
			settle:  time.Second,
		}
		applySettings(opts, settings)

		if opts.watcher[0] != "./from-flag" {
			t.Errorf("watcher = %v, flag value should win", opts.watcher)
		}
		if opts.settle != time.Second {
			t.Errorf("settle = %v, flag value should win", opts.settle)
		}
	})
}
