// Package script parses filesystem-mutation test scripts into action
// sequences and extracts the watch roots the watcher process observes.
//
// # Script Format
//
// One action per line, space-delimited tokens, first token selects the
// command:
//
//	WatchDir <relative-path>            # zero or more, must precede all other lines
//	Create Dir|File <relative-path>
//	Delete <relative-path>
//	Write <relative-path> "<content>"   # content is a single quoted token
//	Move <from-relative-path> <to-relative-path>
//	Wait <integer-seconds>
//
// Blank lines and lines starting with '#' are ignored. All paths are
// resolved against the base directory supplied at parse time.
package script

import "fmt"

// Action is one step of a filesystem-mutation test script.
//
// It is a closed set of variants: Create, Delete, Write, Move, Wait and
// WatchDir. Consumers dispatch with a type switch; the executor treats any
// type outside this set (including WatchDir, which is a declaration rather
// than an executable step) as a programming error.
type Action interface {
	fmt.Stringer

	// action is a marker restricting implementations to this package.
	action()
}

// Create creates a file or directory at Path.
type Create struct {
	Path string
	Dir  bool // directory-create vs file-touch
}

// Delete removes the path. Directories are removed recursively.
type Delete struct {
	Path string
}

// Write overwrites the file at Path with Content.
type Write struct {
	Path    string
	Content string
}

// Move renames From to To.
type Move struct {
	From string
	To   string
}

// Wait pauses execution for Seconds. It has no filesystem effect and exists
// to let the watcher's OS-level notifications settle between mutations.
type Wait struct {
	Seconds int
}

// WatchDir declares a root the watcher process should observe.
//
// It is not an executable action: it only appears in the leading prefix of a
// script and is consumed by ExtractWatchRoots before execution.
type WatchDir struct {
	Path string
}

func (Create) action()   {}
func (Delete) action()   {}
func (Write) action()    {}
func (Move) action()     {}
func (Wait) action()     {}
func (WatchDir) action() {}

func (a Create) String() string {
	kind := "File"
	if a.Dir {
		kind = "Dir"
	}
	return fmt.Sprintf("Create %s %s", kind, a.Path)
}

func (a Delete) String() string { return "Delete " + a.Path }

func (a Write) String() string { return fmt.Sprintf("Write %s %q", a.Path, a.Content) }

func (a Move) String() string { return fmt.Sprintf("Move %s %s", a.From, a.To) }

func (a Wait) String() string { return fmt.Sprintf("Wait %d", a.Seconds) }

func (a WatchDir) String() string { return "WatchDir " + a.Path }
