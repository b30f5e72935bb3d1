package watchproc

import (
	"bytes"
	"strings"
	"sync"
)

// Buffer is an append-only byte buffer safe for one writer (the subprocess
// stdout copier) racing readers (progress snapshots, the post-termination
// collection).
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Lines returns the buffer contents split into lines, dropping empty ones.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	contents := b.buf.String()
	b.mu.Unlock()

	var lines []string
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
