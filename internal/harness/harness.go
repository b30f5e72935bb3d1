//go:build unix

// Package harness wires the conformance pipeline together: parse the action
// script, extract watch roots, launch the watcher, replay the mutations,
// collect and normalize the captured events, and compare them against the
// expected output.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"watchcheck/internal/events"
	"watchcheck/internal/executor"
	"watchcheck/internal/script"
	"watchcheck/internal/watchproc"
)

// DefaultSettle is the delay between the last action and watcher
// termination, letting pending OS notifications surface. Fixed-delay
// synchronization is a known source of flakiness inherited from the script
// format's Wait-based timing model; scripts needing more slack add Wait
// actions of their own.
const DefaultSettle = 2 * time.Second

// Options configures a conformance run.
type Options struct {
	ActionsFile string // script of filesystem mutations
	ResultsFile string // expected normalized events, one per line
	BaseDir     string // root all script paths are resolved against

	Watcher []string // argv of the watcher binary (roots appended)
	Build   []string // optional argv run to completion before launch

	Settle    time.Duration // pre-termination settle delay
	StopGrace time.Duration // SIGTERM-to-SIGKILL escalation delay
	Strict    bool          // malformed raw event lines are fatal

	ShowProgress bool
	Logger       *slog.Logger
}

// Outcome is the report of a completed run.
type Outcome struct {
	Result events.Result

	RawLines      int
	CapturedBytes int
	Elapsed       time.Duration
}

// Summary is a one-line human description of the run.
func (o *Outcome) Summary() string {
	return fmt.Sprintf("captured %d events (%s) in %.1fs",
		o.RawLines, humanize.IBytes(uint64(o.CapturedBytes)), o.Elapsed.Seconds())
}

// Run executes the full pipeline. It returns an error only for harness
// failures (parse, config, launch, execution); a comparison mismatch is a
// FAIL outcome, not an error.
//
// The watcher process is terminated on every exit path once started.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	started := time.Now()

	actions, err := script.ParseFile(opts.ActionsFile, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	plan, err := script.ExtractWatchRoots(actions)
	if err != nil {
		return nil, err
	}

	if err := watchproc.Build(ctx, opts.Build, logger); err != nil {
		return nil, err
	}

	// Watched roots must exist before the watcher starts observing them,
	// so the synthesized root-creation prefix runs before launch.
	setup, rest := plan.Setup()
	if err := executor.New(setup, false, logger).Run(ctx); err != nil {
		return nil, err
	}

	proc, err := watchproc.Start(ctx, opts.Watcher, plan.Roots, opts.StopGrace, logger)
	if err != nil {
		return nil, err
	}
	defer proc.Stop()

	if err := executor.New(rest, opts.ShowProgress, logger).Run(ctx); err != nil {
		return nil, err
	}

	// Let the watcher observe and flush the tail of the mutation burst.
	select {
	case <-time.After(settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	proc.Stop()

	lines := proc.Lines()
	actual, err := events.NormalizeLines(lines, opts.BaseDir, opts.Strict, logger)
	if err != nil {
		return nil, err
	}

	expected, err := events.LoadExpected(opts.ResultsFile)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:        events.Compare(actual, expected),
		RawLines:      len(lines),
		CapturedBytes: proc.OutputSize(),
		Elapsed:       time.Since(started),
	}, nil
}
