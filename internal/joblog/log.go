// Package joblog owns the append-only text file that receives every line of
// child process output, and a poller that follows it from another goroutine or
// process.
package joblog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/spotdl-desktop/internal/model"
)

// DefaultFileName is the log file created in the working directory
const DefaultFileName = "command_output.txt"

// File permissions
const (
	filePermissions = 0644
	dirPermissions  = 0755
)

var ErrClosed = errors.New("log is closed")

// Log is an append-only line log shared by all jobs of the process.
// Lines are numbered with a sequence that never goes back, even across Reset.
type Log struct {
	mx   sync.Mutex
	path string
	f    *os.File
	seq  uint64
}

// Open opens path for appending, creating it and its directory when missing
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return &Log{path: path, f: f}, nil
}

// OpenFresh removes any previous log at path and opens an empty one
func OpenFresh(path string) (*Log, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove previous log: %w", err)
	}
	return Open(path)
}

// Path returns the log file path
func (l *Log) Path() string { return l.path }

// Append writes text followed by a newline. The write is unbuffered so a
// concurrent reader observes it immediately.
func (l *Log) Append(text string) (model.LogLine, error) {
	l.mx.Lock()
	defer l.mx.Unlock()

	if l.f == nil {
		return model.LogLine{}, ErrClosed
	}

	text = strings.TrimRight(text, "\r\n")
	if _, err := l.f.WriteString(text + "\n"); err != nil {
		return model.LogLine{}, fmt.Errorf("append log: %w", err)
	}
	l.seq++
	return model.LogLine{Seq: l.seq, Text: text}, nil
}

// Reset truncates the file before a fresh run
func (l *Log) Reset() error {
	l.mx.Lock()
	defer l.mx.Unlock()

	if l.f == nil {
		return ErrClosed
	}
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate log: %w", err)
	}
	return nil
}

// Seq returns the sequence number of the last appended line
func (l *Log) Seq() uint64 {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.seq
}

// Close flushes and closes the file. Calling it twice is a no-op.
func (l *Log) Close() error {
	l.mx.Lock()
	defer l.mx.Unlock()

	if l.f == nil {
		return nil
	}
	err := errors.Join(l.f.Sync(), l.f.Close())
	l.f = nil
	return err
}
