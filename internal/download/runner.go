package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/ytget/spotdl-desktop/internal/joblog"
	"github.com/ytget/spotdl-desktop/internal/log"
	"github.com/ytget/spotdl-desktop/internal/model"
	"github.com/ytget/spotdl-desktop/internal/progress"
)

const (
	// DefaultStopGrace is how long a terminated child may take to exit before it is killed
	DefaultStopGrace = 5 * time.Second

	// SummaryFormat is appended to the log when every item is accounted for
	SummaryFormat = "Downloaded successfully %d songs."
	// StoppedMessage is appended when the user stopped the job
	StoppedMessage = "Download stopped."
	// FailedFormat is appended when the job failed
	FailedFormat = "Download failed: %v"

	// pipes are force closed this long after the grace period
	pipeCloseDelay = time.Second
	maxLineSize    = 1 << 20
	jobIDPrefix    = "job-"
)

// Config tunes the runner
type Config struct {
	// ToolPath is the downloader executable, looked up on PATH when not absolute
	ToolPath string
	// StopGrace bounds how long stop waits before force-killing the process group
	StopGrace time.Duration
	// Encoding is the WHATWG label of the child's output encoding
	Encoding string
	// StopOnComplete terminates the child once all announced items are done
	StopOnComplete bool
	// NewClassifier builds the line classifier of each download job
	NewClassifier func() progress.Classifier
}

// DefaultConfig returns the configuration used when nothing is customized
func DefaultConfig() Config {
	return Config{
		ToolPath:       DefaultTool,
		StopGrace:      DefaultStopGrace,
		Encoding:       DefaultEncoding,
		StopOnComplete: true,
	}
}

// Option customizes a Runner
type Option func(*Runner)

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner spawns the external tool and owns the single active job.
type Runner struct {
	cfg      Config
	enc      encoding.Encoding
	output   *joblog.Log
	notifier Notifier
	logger   *slog.Logger

	interrupt func(*os.Process) error
	kill      func(*os.Process) error
	now       func() time.Time

	mx      sync.Mutex
	active  *Handle
	workers sync.WaitGroup
}

// NewRunner creates a runner appending job output to output
func NewRunner(cfg Config, output *joblog.Log, notifier Notifier, opts ...Option) (*Runner, error) {
	if output == nil {
		return nil, errors.New("download runner requires an output log")
	}
	if cfg.ToolPath == "" {
		cfg.ToolPath = DefaultTool
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = DefaultStopGrace
	}
	if cfg.NewClassifier == nil {
		cfg.NewClassifier = func() progress.Classifier { return progress.NewSpotDLClassifier() }
	}
	enc, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	r := &Runner{
		cfg:       cfg,
		enc:       enc,
		output:    output,
		notifier:  notifier,
		logger:    slog.Default(),
		interrupt: interruptProcess,
		kill:      killProcess,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start validates opts and spawns a download job
func (r *Runner) Start(ctx context.Context, opts model.JobOptions) (*Handle, error) {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	prepare := func() error {
		if opts.OutputDir == "" {
			return nil
		}
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return &model.ValidationError{Field: "output", Reason: err.Error()}
		}
		return nil
	}
	return r.start(ctx, model.JobKindDownload, opts, BuildArgs(opts), "", prepare)
}

// StartUtility runs the tool with args, writes answer to its input and logs
// the output verbatim.
func (r *Runner) StartUtility(ctx context.Context, args []string, answer string) (*Handle, error) {
	if len(args) == 0 {
		return nil, &model.ValidationError{Field: "args", Reason: "no arguments"}
	}
	for _, a := range args {
		if strings.ContainsRune(a, 0) {
			return nil, &model.ValidationError{Field: "args", Reason: "must not contain NUL"}
		}
	}
	return r.start(ctx, model.JobKindUtility, model.JobOptions{}, slices.Clone(args), answer, nil)
}

func (r *Runner) start(ctx context.Context, kind model.JobKind, opts model.JobOptions, args []string, answer string, prepare func() error) (*Handle, error) {
	r.mx.Lock()
	if r.active != nil {
		r.mx.Unlock()
		return nil, model.ErrAlreadyRunning
	}
	if prepare != nil {
		if err := prepare(); err != nil {
			r.mx.Unlock()
			return nil, err
		}
	}
	h, run, err := r.spawn(ctx, kind, opts, args, answer)
	if err != nil {
		r.mx.Unlock()
		return nil, err
	}
	r.active = h
	r.mx.Unlock()

	r.notifier.DownloadButtonEnabled(false)
	r.notifier.StopButtonEnabled(true)
	go run()
	return h, nil
}

func (r *Runner) spawn(ctx context.Context, kind model.JobKind, opts model.JobOptions, args []string, answer string) (*Handle, func(), error) {
	id, err := newJobID()
	if err != nil {
		return nil, nil, err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	h := newHandle(model.Job{
		ID:      id,
		Kind:    kind,
		Options: opts,
		Args:    args,
		Status:  model.JobStatusPending,
	}, cancel)
	if kind == model.JobKindDownload {
		h.tracker = progress.NewTracker(r.cfg.NewClassifier(), r.output.Path())
	}

	cmd := exec.CommandContext(jobCtx, r.cfg.ToolPath, args...)
	configureProcess(cmd)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, nil, &model.SpawnError{Tool: r.cfg.ToolPath, Err: err}
	}
	cmd.Cancel = func() error { return r.terminate(h) }
	cmd.WaitDelay = r.cfg.StopGrace + pipeCloseDelay
	h.cmd = cmd
	h.stdin = stdin

	logCtx := log.ContextAttrs(ctx, slog.String("job_id", id))
	r.logger.InfoContext(logCtx, "starting job",
		slog.String("kind", string(kind)),
		slog.String("command", CommandLine(r.cfg.ToolPath, args)),
	)

	r.workers.Add(1)
	if err := cmd.Start(); err != nil {
		r.workers.Done()
		cancel()
		_ = pw.Close()
		_ = pr.Close()
		r.logger.ErrorContext(logCtx, "failed to start job", slog.String("error", err.Error()))
		return nil, nil, &model.SpawnError{Tool: r.cfg.ToolPath, Err: err}
	}

	h.mx.Lock()
	h.job.PID = cmd.Process.Pid
	h.job.StartedAt = r.now()
	h.job.Status = model.JobStatusDownloading
	h.mx.Unlock()
	logCtx = log.ContextAttrs(logCtx, slog.Int("pid", cmd.Process.Pid))

	if answer != "" {
		if err := h.WriteInput(answer); err != nil {
			r.logger.WarnContext(logCtx, "failed to answer prompt", slog.String("error", err.Error()))
		}
	}

	return h, func() { r.run(logCtx, h, pr, pw) }, nil
}

// terminate is installed as the command's Cancel. It runs at most once per job.
func (r *Runner) terminate(h *Handle) error {
	h.terminations.Add(1)
	p := h.cmd.Process
	err := r.interrupt(p)

	r.workers.Add(1)
	go func() {
		defer r.workers.Done()
		t := time.NewTimer(r.cfg.StopGrace)
		defer t.Stop()
		select {
		case <-h.exited:
		case <-t.C:
			r.logger.Warn("job did not exit in time, killing process group",
				slog.String("job_id", h.ID()),
				slog.Duration("grace", r.cfg.StopGrace),
			)
			if err := r.kill(p); err != nil && !errors.Is(err, os.ErrProcessDone) {
				r.logger.Error("failed to kill job", slog.String("job_id", h.ID()), slog.String("error", err.Error()))
			}
		}
	}()
	return err
}

func (r *Runner) run(ctx context.Context, h *Handle, pr *io.PipeReader, pw *io.PipeWriter) {
	defer r.workers.Done()

	var waitErr, readErr error
	var g errgroup.Group
	g.Go(func() error {
		waitErr = h.cmd.Wait()
		close(h.exited)
		h.closeInput()
		return pw.Close()
	})
	g.Go(func() error {
		readErr = r.consume(ctx, h, pr)
		if readErr != nil {
			h.cancel()
			// keep the child from blocking on a full pipe until it exits
			_, _ = io.Copy(io.Discard, pr)
		}
		return nil
	})
	_ = g.Wait()
	_ = pr.Close()

	r.complete(ctx, h, waitErr, readErr)
}

func (r *Runner) consume(ctx context.Context, h *Handle, src io.Reader) error {
	scanner := bufio.NewScanner(decodingReader(src, r.enc))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	draining := false
	for scanner.Scan() {
		if draining {
			continue
		}
		line := strings.ToValidUTF8(strings.TrimRight(scanner.Text(), "\r"), "\uFFFD")

		if h.tracker == nil {
			r.appendLine(ctx, line)
			continue
		}
		if r.feed(ctx, h, line) && r.cfg.StopOnComplete {
			draining = true
			h.cancel()
		}
	}
	if err := scanner.Err(); err != nil {
		return &model.StreamError{Err: err}
	}
	return nil
}

// feed classifies one line and reports whether it completed the job
func (r *Runner) feed(ctx context.Context, h *Handle, line string) bool {
	before := h.tracker.Snapshot()
	u := h.tracker.Feed(line)

	r.appendLine(ctx, u.Event.Line)
	h.setProgress(u.State)

	if u.State.TotalKnown && !before.TotalKnown {
		r.logger.DebugContext(ctx, "total announced", slog.Int("total", u.State.Total))
		r.notifier.ProgressInitialized(u.State.Total)
	}
	if u.State.Completed != before.Completed {
		r.notifier.ProgressAdvanced(u.State.Completed)
	}
	if u.Completed {
		r.logger.InfoContext(ctx, "all items accounted for", slog.Int("total", u.State.Total))
		r.appendLine(ctx, fmt.Sprintf(SummaryFormat, u.State.Total))
	}
	return u.Completed
}

func (r *Runner) appendLine(ctx context.Context, text string) {
	line, err := r.output.Append(text)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to append job output", slog.String("error", err.Error()))
		line = model.LogLine{Text: text}
	}
	r.notifier.LogUpdated(line)
}

func (r *Runner) outcome(ctx context.Context, h *Handle, waitErr, readErr error) (model.JobStatus, error) {
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// the tool exited cleanly, a grandchild kept the pipe open
		waitErr = nil
	}
	switch {
	case h.tracker != nil && h.tracker.Snapshot().Done:
		return model.JobStatusCompleted, nil
	case h.stopRequested.Load() || ctx.Err() != nil:
		return model.JobStatusStopped, nil
	case readErr != nil:
		return model.JobStatusFailed, readErr
	case waitErr != nil:
		return model.JobStatusFailed, fmt.Errorf("%s exited: %w", r.cfg.ToolPath, waitErr)
	default:
		return model.JobStatusCompleted, nil
	}
}

func (r *Runner) complete(ctx context.Context, h *Handle, waitErr, readErr error) {
	status, err := r.outcome(ctx, h, waitErr, readErr)
	switch status {
	case model.JobStatusStopped:
		r.appendLine(ctx, StoppedMessage)
	case model.JobStatusFailed:
		r.appendLine(ctx, fmt.Sprintf(FailedFormat, err))
	}

	job := h.finish(status, err, r.now())
	attrs := []any{
		slog.String("status", status.String()),
		slog.String("progress", job.GetProgressString()),
		slog.Duration("elapsed", job.FinishedAt.Sub(job.StartedAt)),
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "job finished", append(attrs, slog.String("error", err.Error()))...)
	} else {
		r.logger.InfoContext(ctx, "job finished", attrs...)
	}

	r.mx.Lock()
	if r.active == h {
		r.active = nil
	}
	r.mx.Unlock()

	r.notifier.StopButtonEnabled(false)
	r.notifier.DownloadButtonEnabled(true)
	r.notifier.JobFinished(job)
	close(h.done)
}

// Stop terminates the job behind h and waits until it reached a terminal
// status. The wait is bounded by the grace period plus the kill.
func (r *Runner) Stop(h *Handle) error {
	if h == nil || h.finished() {
		return model.ErrNoActiveJob
	}
	r.logger.Info("stopping job", slog.String("job_id", h.ID()))
	h.requestStop()
	r.notifier.StopButtonEnabled(false)
	<-h.done
	return nil
}

// StopActive stops the current job, if any
func (r *Runner) StopActive() error {
	return r.Stop(r.Active())
}

// Active returns the running job or nil
func (r *Runner) Active() *Handle {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.active
}

// IsActive reports whether a job is running
func (r *Runner) IsActive() bool {
	return r.Active() != nil
}

// Close stops the active job and waits for every worker to return
func (r *Runner) Close() {
	_ = r.StopActive()
	r.workers.Wait()
}

func newJobID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate job id: %w", err)
	}
	return jobIDPrefix + id.String(), nil
}

var _ JobRunner = (*Runner)(nil)
