package download

import (
	"fmt"
	"io"
	"sync"

	"github.com/ytget/spotdl-desktop/internal/model"
)

// NopNotifier discards every notification
type NopNotifier struct{}

func (NopNotifier) ProgressInitialized(int)    {}
func (NopNotifier) ProgressAdvanced(int)       {}
func (NopNotifier) DownloadButtonEnabled(bool) {}
func (NopNotifier) StopButtonEnabled(bool)     {}
func (NopNotifier) LogUpdated(model.LogLine)   {}
func (NopNotifier) JobFinished(model.Job)      {}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

// LogNotifier writes job output and progress to a terminal
type LogNotifier struct {
	mx    sync.Mutex
	w     io.Writer
	color bool
	total int
	known bool
}

// NewLogNotifier creates a notifier printing to w; color enables ANSI escapes
func NewLogNotifier(w io.Writer, color bool) *LogNotifier {
	return &LogNotifier{w: w, color: color}
}

func (n *LogNotifier) ProgressInitialized(total int) {
	n.mx.Lock()
	defer n.mx.Unlock()
	n.total = total
	n.known = true
	n.printf(ansiBold, "Found %d songs to process", total)
}

func (n *LogNotifier) ProgressAdvanced(completed int) {
	n.mx.Lock()
	defer n.mx.Unlock()
	if n.known {
		n.printf(ansiBold, "[%d/%d]", completed, n.total)
		return
	}
	n.printf(ansiBold, "[%d/?]", completed)
}

func (n *LogNotifier) DownloadButtonEnabled(bool) {}

func (n *LogNotifier) StopButtonEnabled(bool) {}

func (n *LogNotifier) LogUpdated(line model.LogLine) {
	n.mx.Lock()
	defer n.mx.Unlock()
	fmt.Fprintln(n.w, line.Text)
}

func (n *LogNotifier) JobFinished(job model.Job) {
	n.mx.Lock()
	defer n.mx.Unlock()
	style := ansiGreen
	if job.Status != model.JobStatusCompleted {
		style = ansiRed
	}
	msg := fmt.Sprintf("%s %s (%s)", job.Status, job.GetProgressString(), job.GetElapsedString(job.FinishedAt))
	if job.LastError != "" {
		msg += ": " + job.LastError
	}
	n.printf(style, "%s", msg)
}

func (n *LogNotifier) printf(style, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if n.color {
		text = style + text + ansiReset
	}
	fmt.Fprintln(n.w, text)
}

var (
	_ Notifier = NopNotifier{}
	_ Notifier = (*LogNotifier)(nil)
)
