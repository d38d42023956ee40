package joblog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultPollInterval matches the refresh rate of the log pane
const DefaultPollInterval = 100 * time.Millisecond

// Watcher polls a log file and yields complete lines appended since the last
// poll. A partial last line is held back until its newline arrives. Truncation
// of the file starts reading from the beginning again.
type Watcher struct {
	path     string
	interval time.Duration
	offset   int64
	pending  []byte
}

// NewWatcher creates a watcher; a non-positive interval selects DefaultPollInterval
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{path: path, interval: interval}
}

// Poll returns the complete lines written since the previous call.
// A missing file is not an error, it yields nothing.
func (w *Watcher) Poll() ([]string, error) {
	f, err := os.Open(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < w.offset {
		w.offset = 0
		w.pending = nil
	}
	if info.Size() == w.offset {
		return nil, nil
	}

	if _, err := f.Seek(w.offset, io.SeekStart); err != nil {
		return nil, err
	}
	chunk, err := io.ReadAll(io.LimitReader(f, info.Size()-w.offset))
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	w.offset += int64(len(chunk))

	data := append(w.pending, chunk...)
	last := bytes.LastIndexByte(data, '\n')
	if last < 0 {
		w.pending = data
		return nil, nil
	}

	complete := data[:last]
	w.pending = append([]byte(nil), data[last+1:]...)

	return stringsOf(bytes.Split(complete, []byte{'\n'})), nil
}

// Run polls until ctx is done, calling fn with every batch of new lines
func (w *Watcher) Run(ctx context.Context, fn func(lines []string)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		lines, err := w.Poll()
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			fn(lines)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func stringsOf(parts [][]byte) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(bytes.TrimRight(p, "\r"))
	}
	return out
}
