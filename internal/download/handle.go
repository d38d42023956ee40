package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/spotdl-desktop/internal/model"
	"github.com/ytget/spotdl-desktop/internal/progress"
)

// ErrInputClosed is returned by WriteInput once the job has finished
var ErrInputClosed = errors.New("job input is closed")

// Handle refers to one spawned job. It stays valid after the job finishes.
type Handle struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	tracker *progress.Tracker
	cancel  context.CancelFunc

	stopRequested atomic.Bool
	terminations  atomic.Int32

	// exited is closed once Wait on the child returned, done once the
	// worker has published the final status.
	exited chan struct{}
	done   chan struct{}

	inputMx sync.Mutex
	inputOK bool

	mx  sync.RWMutex
	job model.Job
}

func newHandle(job model.Job, cancel context.CancelFunc) *Handle {
	return &Handle{
		cancel:  cancel,
		exited:  make(chan struct{}),
		done:    make(chan struct{}),
		inputOK: true,
		job:     job,
	}
}

// ID returns the job id
func (h *Handle) ID() string {
	h.mx.RLock()
	defer h.mx.RUnlock()
	return h.job.ID
}

// Job returns a snapshot of the job
func (h *Handle) Job() model.Job {
	h.mx.RLock()
	defer h.mx.RUnlock()
	j := h.job
	j.Args = slices.Clone(h.job.Args)
	return j
}

// Done is closed when the job reached a terminal status
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the job finishes or ctx is done
func (h *Handle) Wait(ctx context.Context) (model.Job, error) {
	select {
	case <-h.done:
		return h.Job(), nil
	case <-ctx.Done():
		return h.Job(), ctx.Err()
	}
}

// WriteInput sends text to the child's standard input
func (h *Handle) WriteInput(text string) error {
	h.inputMx.Lock()
	defer h.inputMx.Unlock()
	if !h.inputOK || h.stdin == nil {
		return ErrInputClosed
	}
	if _, err := io.WriteString(h.stdin, text); err != nil {
		return fmt.Errorf("write job input: %w", err)
	}
	return nil
}

// Terminations returns how many times the child was asked to terminate
func (h *Handle) Terminations() int {
	return int(h.terminations.Load())
}

func (h *Handle) finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Handle) closeInput() {
	h.inputMx.Lock()
	defer h.inputMx.Unlock()
	if h.inputOK && h.stdin != nil {
		_ = h.stdin.Close()
	}
	h.inputOK = false
}

// requestStop marks the stop as user initiated and cancels the process context
func (h *Handle) requestStop() {
	h.stopRequested.Store(true)
	h.mx.Lock()
	if h.job.Status.IsActive() {
		h.job.Status = model.JobStatusStopping
	}
	h.mx.Unlock()
	h.cancel()
}

func (h *Handle) setProgress(s progress.State) {
	h.mx.Lock()
	defer h.mx.Unlock()
	h.job.Total = s.Total
	h.job.TotalKnown = s.TotalKnown
	h.job.Completed = s.Completed
}

func (h *Handle) finish(status model.JobStatus, err error, at time.Time) model.Job {
	h.mx.Lock()
	h.job.Status = status
	if err != nil {
		h.job.LastError = err.Error()
	}
	h.job.FinishedAt = at
	h.mx.Unlock()
	return h.Job()
}
