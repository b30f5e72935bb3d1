//go:build unix

package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"watchcheck/internal/script"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func runActions(t *testing.T, actions ...script.Action) error {
	t.Helper()
	return New(actions, false, discard).Run(context.Background())
}

// =============================================================================
// Filesystem effects
// =============================================================================

// TestExecuteCreateFile tests file-touch creation.
func TestExecuteCreateFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f1")

	if err := runActions(t, script.Create{Path: path}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.IsDir() || info.Size() != 0 {
		t.Errorf("expected empty regular file, got dir=%v size=%d", info.IsDir(), info.Size())
	}
}

// TestExecuteCreateDir tests nested directory creation.
func TestExecuteCreateDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "d1", "d2")

	if err := runActions(t, script.Create{Path: path, Dir: true}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Errorf("expected directory at %s (err=%v)", path, err)
	}
}

// TestExecuteWriteOverwrites tests that Write replaces file contents.
func TestExecuteWriteOverwrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f1")
	if err := os.WriteFile(path, []byte("old-content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runActions(t, script.Write{Path: path, Content: "new"}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

// TestExecuteDeleteBranches tests file vs recursive directory deletion.
func TestExecuteDeleteBranches(t *testing.T) {
	root := t.TempDir()

	file := filepath.Join(root, "f1")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "d1")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "f2"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runActions(t, script.Delete{Path: file}, script.Delete{Path: dir}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	for _, p := range []string{file, dir} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists", p)
		}
	}
}

// TestExecuteMove tests renaming.
func TestExecuteMove(t *testing.T) {
	root := t.TempDir()
	from := filepath.Join(root, "f1")
	to := filepath.Join(root, "f2")
	if err := os.WriteFile(from, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runActions(t, script.Move{From: from, To: to}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	if _, err := os.Stat(to); err != nil {
		t.Errorf("target missing after move: %v", err)
	}
}

// TestExecuteWait tests that Wait delays without touching the filesystem
// and honors cancellation.
func TestExecuteWait(t *testing.T) {
	start := time.Now()
	if err := runActions(t, script.Wait{Seconds: 1}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("Wait returned after %v, want >= 1s", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New([]script.Action{script.Wait{Seconds: 60}}, false, discard).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Wait error = %v, want context.Canceled", err)
	}
}

// =============================================================================
// Failure semantics
// =============================================================================

// TestExecuteAbortsOnFirstError tests that execution stops at the failing
// action and later actions never run.
func TestExecuteAbortsOnFirstError(t *testing.T) {
	root := t.TempDir()
	never := filepath.Join(root, "never-created")

	err := runActions(t,
		script.Delete{Path: filepath.Join(root, "missing")},
		script.Create{Path: never},
	)

	var xerr *ExecutionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if _, ok := xerr.Action.(script.Delete); !ok {
		t.Errorf("failing action = %#v, want the Delete", xerr.Action)
	}
	if _, err := os.Stat(never); !os.IsNotExist(err) {
		t.Error("action after the failure was still executed")
	}
}

// TestExecuteWatchDirIsProgrammingError tests that an unextracted WatchDir
// fails immediately.
func TestExecuteWatchDirIsProgrammingError(t *testing.T) {
	err := runActions(t, script.WatchDir{Path: "/b/d1"})

	var xerr *ExecutionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
}
