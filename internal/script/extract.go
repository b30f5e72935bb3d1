package script

import "fmt"

// ConfigError reports a structurally invalid script, e.g. a WatchDir
// declaration appearing after the first executable action.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// Plan is the executable form of a parsed script: the ordered watch roots
// plus the action sequence with one synthesized directory-creation action
// per root at the front, so each root exists before the watcher observes it.
type Plan struct {
	Roots   []string
	Actions []Action
}

// Setup returns the synthesized root-creation prefix and the remaining
// script actions. The prefix must run before the watcher process starts.
func (p Plan) Setup() (setup, rest []Action) {
	return p.Actions[:len(p.Roots)], p.Actions[len(p.Roots):]
}

// ExtractWatchRoots splits the leading run of WatchDir declarations off the
// action sequence and returns the resulting Plan.
//
// The script format requires all WatchDir lines to precede executable
// actions; a declaration found later is a ConfigError. An empty root list is
// permitted (the run is valid but the watcher will observe nothing).
func ExtractWatchRoots(actions []Action) (Plan, error) {
	var plan Plan

	i := 0
	for ; i < len(actions); i++ {
		wd, ok := actions[i].(WatchDir)
		if !ok {
			break
		}
		plan.Roots = append(plan.Roots, wd.Path)
	}

	rest := actions[i:]
	for _, a := range rest {
		if wd, ok := a.(WatchDir); ok {
			return Plan{}, &ConfigError{
				Reason: fmt.Sprintf("WatchDir %s must precede all executable actions", wd.Path),
			}
		}
	}

	// One Create Dir per root, in declaration order, where the
	// declarations were removed.
	plan.Actions = make([]Action, 0, len(plan.Roots)+len(rest))
	for _, root := range plan.Roots {
		plan.Actions = append(plan.Actions, Create{Path: root, Dir: true})
	}
	plan.Actions = append(plan.Actions, rest...)

	return plan, nil
}
