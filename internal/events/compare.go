package events

import (
	"fmt"
	"io"
)

// Result is the outcome of comparing the actual event set against the
// expected one. A mismatch is the FAIL outcome of a conformance run, not an
// error condition.
type Result struct {
	Pass     bool
	Actual   Set
	Expected Set
}

// Compare checks the two sets for exact equality.
func Compare(actual, expected Set) Result {
	return Result{
		Pass:     actual.Equal(expected),
		Actual:   actual,
		Expected: expected,
	}
}

// Missing returns expected events the watcher did not report.
func (r Result) Missing() []string {
	var out []string
	for _, e := range r.Expected.Sorted() {
		if _, ok := r.Actual[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// Unexpected returns reported events the expected set does not contain.
func (r Result) Unexpected() []string {
	var out []string
	for _, e := range r.Actual.Sorted() {
		if _, ok := r.Expected[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// WriteReport prints PASS, or FAIL followed by both sets in full for manual
// diffing plus the symmetric difference as a convenience.
func (r Result) WriteReport(w io.Writer) {
	if r.Pass {
		fmt.Fprintln(w, "PASS")
		return
	}

	fmt.Fprintln(w, "FAIL")
	fmt.Fprintln(w, "--- actual events ---")
	for _, e := range r.Actual.Sorted() {
		fmt.Fprintln(w, e)
	}
	fmt.Fprintln(w, "--- expected events ---")
	for _, e := range r.Expected.Sorted() {
		fmt.Fprintln(w, e)
	}
	if missing := r.Missing(); len(missing) > 0 {
		fmt.Fprintln(w, "--- missing ---")
		for _, e := range missing {
			fmt.Fprintln(w, e)
		}
	}
	if unexpected := r.Unexpected(); len(unexpected) > 0 {
		fmt.Fprintln(w, "--- unexpected ---")
		for _, e := range unexpected {
			fmt.Fprintln(w, e)
		}
	}
}
