package script

import (
	"errors"
	"reflect"
	"testing"
)

// =============================================================================
// Watch-root extraction
// =============================================================================

// TestExtractWatchRoots tests that the leading WatchDir run becomes the
// ordered root list, each root gaining a synthesized Create Dir action where
// the declarations were removed.
func TestExtractWatchRoots(t *testing.T) {
	actions := []Action{
		WatchDir{Path: "/b/d1"},
		WatchDir{Path: "/b/d2"},
		Create{Path: "/b/d1/f1"},
		Delete{Path: "/b/d1/f1"},
	}

	plan, err := ExtractWatchRoots(actions)
	if err != nil {
		t.Fatalf("ExtractWatchRoots error: %v", err)
	}

	if want := []string{"/b/d1", "/b/d2"}; !reflect.DeepEqual(plan.Roots, want) {
		t.Errorf("roots = %v, want %v", plan.Roots, want)
	}

	want := []Action{
		Create{Path: "/b/d1", Dir: true},
		Create{Path: "/b/d2", Dir: true},
		Create{Path: "/b/d1/f1"},
		Delete{Path: "/b/d1/f1"},
	}
	if !reflect.DeepEqual(plan.Actions, want) {
		t.Errorf("actions = %#v, want %#v", plan.Actions, want)
	}
}

// TestExtractNoRoots tests that a script without WatchDir lines is valid and
// yields an empty root list with the actions untouched.
func TestExtractNoRoots(t *testing.T) {
	actions := []Action{Create{Path: "/b/f1"}}

	plan, err := ExtractWatchRoots(actions)
	if err != nil {
		t.Fatalf("ExtractWatchRoots error: %v", err)
	}
	if len(plan.Roots) != 0 {
		t.Errorf("roots = %v, want none", plan.Roots)
	}
	if !reflect.DeepEqual(plan.Actions, actions) {
		t.Errorf("actions = %#v, want %#v", plan.Actions, actions)
	}
}

// TestExtractLateWatchDir tests that a WatchDir after an executable action
// is a ConfigError.
func TestExtractLateWatchDir(t *testing.T) {
	actions := []Action{
		WatchDir{Path: "/b/d1"},
		Create{Path: "/b/d1/f1"},
		WatchDir{Path: "/b/d2"},
	}

	_, err := ExtractWatchRoots(actions)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

// TestPlanSetup tests that Setup splits exactly the synthesized prefix off.
func TestPlanSetup(t *testing.T) {
	plan, err := ExtractWatchRoots([]Action{
		WatchDir{Path: "/b/d1"},
		Wait{Seconds: 1},
	})
	if err != nil {
		t.Fatalf("ExtractWatchRoots error: %v", err)
	}

	setup, rest := plan.Setup()
	if len(setup) != 1 || len(rest) != 1 {
		t.Fatalf("Setup() split %d/%d, want 1/1", len(setup), len(rest))
	}
	if _, ok := setup[0].(Create); !ok {
		t.Errorf("setup[0] = %#v, want Create", setup[0])
	}
	if _, ok := rest[0].(Wait); !ok {
		t.Errorf("rest[0] = %#v, want Wait", rest[0])
	}
}
