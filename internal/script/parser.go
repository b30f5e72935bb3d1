package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseError reports a malformed script line. It is fatal: no filesystem
// mutation or process launch happens once parsing has failed.
type ParseError struct {
	Line   int    // 1-based line number in the script
	Input  string // the offending line, verbatim
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Input)
}

// Parse reads a script and returns its ordered action sequence.
//
// Every path token is joined with basedir before the action is built, so
// actions always carry basedir-resolved paths. Parsing is deterministic:
// the same script text always yields the same sequence.
func Parse(r io.Reader, basedir string) ([]Action, error) {
	var actions []Action

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		action, err := parseLine(line, lineno, basedir)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return actions, nil
}

// ParseFile parses the script at path.
func ParseFile(path, basedir string) ([]Action, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, basedir)
}

// parseLine builds a single action from one script line.
func parseLine(line string, lineno int, basedir string) (Action, error) {
	tokens := strings.Fields(line)
	cmd := tokens[0]

	fail := func(reason string) (Action, error) {
		return nil, &ParseError{Line: lineno, Input: line, Reason: reason}
	}

	switch cmd {
	case "Create":
		if len(tokens) != 3 {
			return fail("Create takes exactly 2 arguments")
		}
		// Only the literal token "Dir" selects directory creation.
		return Create{
			Path: filepath.Join(basedir, tokens[2]),
			Dir:  tokens[1] == "Dir",
		}, nil

	case "Delete":
		if len(tokens) != 2 {
			return fail("Delete takes exactly 1 argument")
		}
		return Delete{Path: filepath.Join(basedir, tokens[1])}, nil

	case "Write":
		if len(tokens) != 3 {
			return fail("Write takes exactly 2 arguments")
		}
		content, ok := unquote(tokens[2])
		if !ok {
			return fail("Write content must be a double-quoted token")
		}
		return Write{
			Path:    filepath.Join(basedir, tokens[1]),
			Content: content,
		}, nil

	case "Move":
		if len(tokens) != 3 {
			return fail("Move takes exactly 2 arguments")
		}
		return Move{
			From: filepath.Join(basedir, tokens[1]),
			To:   filepath.Join(basedir, tokens[2]),
		}, nil

	case "Wait":
		if len(tokens) != 2 {
			return fail("Wait takes exactly 1 argument")
		}
		seconds, err := strconv.Atoi(tokens[1])
		if err != nil {
			return fail("Wait duration must be an integer")
		}
		return Wait{Seconds: seconds}, nil

	case "WatchDir":
		if len(tokens) != 2 {
			return fail("WatchDir takes exactly 1 argument")
		}
		return WatchDir{Path: filepath.Join(basedir, tokens[1])}, nil

	default:
		return fail(fmt.Sprintf("unknown command %q", cmd))
	}
}

// unquote strips exactly one leading and one trailing double quote.
//
// No escape processing: the script format cannot express content containing
// spaces because tokenization happens before quote stripping. That is a
// known format limitation, preserved for compatibility.
func unquote(token string) (string, bool) {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return "", false
	}
	return token[1 : len(token)-1], true
}
