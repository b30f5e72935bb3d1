// Package executor performs the filesystem side effects of a parsed action
// sequence, in order, aborting on the first failure.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"watchcheck/internal/progress"
	"watchcheck/internal/script"
)

// ExecutionError reports a failed action. Execution stops at the first
// failure; there is no partial-success continuation.
type ExecutionError struct {
	Action script.Action
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %s: %v", e.Action, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Executor runs actions sequentially. Single-use: create with New, call Run
// once. Execution order is the sole ordering guarantee for the events the
// watcher is expected to observe.
type Executor struct {
	actions      []script.Action
	showProgress bool
	logger       *slog.Logger

	executed int
	started  time.Time
}

// New creates an Executor for the given action sequence.
func New(actions []script.Action, showProgress bool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		actions:      actions,
		showProgress: showProgress,
		logger:       logger,
	}
}

func (e *Executor) String() string {
	return fmt.Sprintf("Executed %d actions in %.1fs",
		e.executed, time.Since(e.started).Seconds())
}

// Run executes every action in order. The context only interrupts Wait
// actions; filesystem operations are synchronous and fast.
func (e *Executor) Run(ctx context.Context) error {
	e.started = time.Now()
	bar := progress.New(e.showProgress, int64(len(e.actions)))

	for _, action := range e.actions {
		e.logger.Debug("executing action", "action", action.String())
		if err := e.execute(ctx, action); err != nil {
			return &ExecutionError{Action: action, Err: err}
		}
		e.executed++
		bar.Step(action.String())
	}

	bar.Finish(e)
	return nil
}

// execute dispatches one action. The type switch is exhaustive over the
// script package's action variants; anything else is a programming error.
func (e *Executor) execute(ctx context.Context, action script.Action) error {
	switch a := action.(type) {
	case script.Create:
		if a.Dir {
			return os.MkdirAll(a.Path, 0o755)
		}
		return touch(a.Path)

	case script.Delete:
		info, err := os.Stat(a.Path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return os.RemoveAll(a.Path)
		}
		return os.Remove(a.Path)

	case script.Write:
		return os.WriteFile(a.Path, []byte(a.Content), 0o644)

	case script.Move:
		return os.Rename(a.From, a.To)

	case script.Wait:
		select {
		case <-time.After(time.Duration(a.Seconds) * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	case script.WatchDir:
		// Declarations are consumed by ExtractWatchRoots; reaching one
		// here means the caller skipped extraction.
		return fmt.Errorf("WatchDir declaration is not executable")

	default:
		return fmt.Errorf("unhandled action type %T", action)
	}
}

// touch creates an empty file, leaving an existing file's contents alone.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
