//go:build unix

package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"watchcheck/internal/config"
	"watchcheck/internal/harness"
)

// checkOptions holds CLI flags for the check command.
type checkOptions struct {
	watcher    []string
	build      []string
	settle     time.Duration
	stopGrace  time.Duration
	strict     bool
	noProgress bool
	verbose    bool
	exitCode   bool
	configFile string
}

// newCheckCmd creates the check subcommand.
func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <actionsfile> <resultsfile> <basedir>",
		Short: "Replay an action script against a watcher and compare its events",
		Long: `Parses the action script, starts the watcher binary observing the declared
watch roots, replays the script's filesystem mutations, then compares the
watcher's normalized event stream against the expected-output file.

The comparison is order- and duplicate-insensitive. The result (PASS or FAIL
with both event sets dumped in full) is printed to stdout; by default the
exit code is 0 whenever the comparison was performed, use --exit-code to
reflect FAIL in the exit status.`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCheck(args, opts)
		},
	}

	// Bind flags to options
	cmd.Flags().StringSliceVarP(&opts.watcher, "watcher", "w", nil, "Watcher command (watch roots are appended as arguments)")
	cmd.Flags().StringSliceVarP(&opts.build, "build", "b", nil, "Build command to run before launching the watcher")
	cmd.Flags().DurationVar(&opts.settle, "settle", 0, "Delay before terminating the watcher (default 2s)")
	cmd.Flags().DurationVar(&opts.stopGrace, "stop-grace", 0, "SIGTERM grace period before SIGKILL (default 5s)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat malformed watcher output lines as fatal")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log individual actions and process lifecycle")
	cmd.Flags().BoolVar(&opts.exitCode, "exit-code", false, "Exit non-zero when the comparison result is FAIL")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to YAML settings file")

	return cmd
}

// errMismatch signals a FAIL comparison when --exit-code is set. It carries
// no message: the report has already been printed.
var errMismatch = errors.New("event sets differ")

// runCheck executes the conformance pipeline: parse → launch → replay →
// collect → normalize → compare.
func runCheck(args []string, opts *checkOptions) error {
	logger := newLogger(opts.verbose)

	settings, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	applySettings(opts, settings)

	outcome, err := harness.Run(harnessContext(), harness.Options{
		ActionsFile:  args[0],
		ResultsFile:  args[1],
		BaseDir:      args[2],
		Watcher:      opts.watcher,
		Build:        opts.build,
		Settle:       opts.settle,
		StopGrace:    opts.stopGrace,
		Strict:       opts.strict,
		ShowProgress: !opts.noProgress,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	logger.Info("run complete", "summary", outcome.Summary())
	outcome.Result.WriteReport(os.Stdout)

	if opts.exitCode && !outcome.Result.Pass {
		return errMismatch
	}
	return nil
}

// applySettings fills in options left unset on the command line.
func applySettings(opts *checkOptions, s *config.Settings) {
	if len(opts.watcher) == 0 {
		opts.watcher = s.Watcher
	}
	if len(opts.build) == 0 {
		opts.build = s.Build
	}
	if opts.settle == 0 {
		opts.settle = time.Duration(s.Settle)
	}
	if opts.stopGrace == 0 {
		opts.stopGrace = time.Duration(s.StopGrace)
	}
	if s.Strict {
		opts.strict = true
	}
}

// newLogger builds the stderr logger. Debug level exposes per-action and
// process lifecycle tracing.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
