//go:build unix

// Package watchproc manages the external watcher process: optional build
// step, launch against the watch roots, stdout capture, and guaranteed
// termination.
package watchproc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// DefaultStopGrace is how long Stop waits after SIGTERM before escalating
// to SIGKILL. A hung watcher must not block the harness indefinitely.
const DefaultStopGrace = 5 * time.Second

// LaunchError reports a failure to build or spawn the watcher binary.
// It is fatal: no script execution proceeds after it.
type LaunchError struct {
	Stage string // "build" or "start"
	Err   error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s watcher: %v", e.Stage, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Process is a running watcher subprocess together with its capture buffer.
//
// The buffer has a single writer (the subprocess stdout) and is read by the
// harness after Stop returns; Stop waits for the process to exit and for the
// final stdout copy to complete, so termination happens-before the read.
type Process struct {
	cmd  *exec.Cmd
	out  *Buffer
	done chan struct{} // closed once cmd.Wait returns

	grace  time.Duration
	logger *slog.Logger

	stopOnce sync.Once
}

// Build runs the watcher's build command to completion.
//
// Output is inherited so build diagnostics reach the operator directly.
func Build(ctx context.Context, argv []string, logger *slog.Logger) error {
	if len(argv) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("building watcher", "command", argv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &LaunchError{Stage: "build", Err: err}
	}
	return nil
}

// Start spawns the watcher with the watch roots appended as trailing
// positional arguments and its stdout redirected into the capture buffer.
//
// Callers must arrange for Stop to run on every exit path.
func Start(ctx context.Context, argv []string, roots []string, grace time.Duration, logger *slog.Logger) (*Process, error) {
	if len(argv) == 0 {
		return nil, &LaunchError{Stage: "start", Err: fmt.Errorf("no watcher command configured")}
	}
	if grace <= 0 {
		grace = DefaultStopGrace
	}
	if logger == nil {
		logger = slog.Default()
	}

	args := append(append([]string{}, argv[1:]...), roots...)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	out := &Buffer{}
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	logger.Info("starting watcher", "command", argv[0], "roots", roots)
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Stage: "start", Err: err}
	}

	p := &Process{
		cmd:    cmd,
		out:    out,
		done:   make(chan struct{}),
		grace:  grace,
		logger: logger,
	}

	go func() {
		// Wait also drains stdout into the buffer, so done closing
		// means the last output written before exit has been captured.
		_ = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// Stop terminates the watcher. Idempotent: calling it on an already
// terminated process is a no-op. Returns once the process has exited and
// its output is fully captured.
func (p *Process) Stop() {
	p.stopOnce.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}

		p.logger.Debug("terminating watcher", "pid", p.cmd.Process.Pid)
		_ = p.cmd.Process.Signal(syscall.SIGTERM)

		select {
		case <-p.done:
		case <-time.After(p.grace):
			p.logger.Warn("watcher ignored SIGTERM, killing", "pid", p.cmd.Process.Pid)
			_ = p.cmd.Process.Kill()
			<-p.done
		}
	})
	<-p.done
}

// Lines returns the captured stdout split into non-empty lines.
// Authoritative only after Stop; earlier calls may see a partial snapshot.
func (p *Process) Lines() []string {
	return p.out.Lines()
}

// OutputSize returns the number of captured stdout bytes.
func (p *Process) OutputSize() int {
	return p.out.Len()
}
