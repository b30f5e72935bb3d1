// watchref is a reference watcher binary for exercising the harness.
//
// It watches the directories given as arguments (recursively) and emits one
// line per detected filesystem change to stdout:
//
//	<path>,<kind>
//
// with kind one of CREATE, WRITE, REMOVE, RENAME_FROM, CHMOD. Newly created
// directories are added to the watch as they appear. It runs until
// terminated.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

func main() {
	if len(os.Args) < 2 {
		fatalf("usage: watchref <dir> [dir...]")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatalf("create watcher: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range os.Args[1:] {
		if err := watchRecursive(watcher, root); err != nil {
			fatalf("watch %s: %v", root, err)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			emit(event)
			if event.Op.Has(fsnotify.Create) {
				// New directories must be watched too; a failure here
				// means the path was already gone again.
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watchref: %v\n", err)
		}
	}
}

// watchRecursive adds dir and all directories below it to the watch.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// emit prints one `path,kind` line per operation flagged on the event.
func emit(event fsnotify.Event) {
	for _, op := range []struct {
		flag fsnotify.Op
		kind string
	}{
		{fsnotify.Create, "CREATE"},
		{fsnotify.Write, "WRITE"},
		{fsnotify.Remove, "REMOVE"},
		{fsnotify.Rename, "RENAME_FROM"},
		{fsnotify.Chmod, "CHMOD"},
	} {
		if event.Op.Has(op.flag) {
			fmt.Printf("%s,%s\n", event.Name, op.kind)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "watchref: "+format+"\n", args...)
	os.Exit(1)
}
