//go:build !windows

package download

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/spotdl-desktop/internal/joblog"
	"github.com/ytget/spotdl-desktop/internal/model"
)

const testURL = "https://open.spotify.com/playlist/abc"

type recorder struct {
	mx       sync.Mutex
	totals   []int
	advanced []int
	lines    []string
	download []bool
	stop     []bool
	finished []model.Job
}

func (r *recorder) ProgressInitialized(total int) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.totals = append(r.totals, total)
}

func (r *recorder) ProgressAdvanced(completed int) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.advanced = append(r.advanced, completed)
}

func (r *recorder) DownloadButtonEnabled(enabled bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.download = append(r.download, enabled)
}

func (r *recorder) StopButtonEnabled(enabled bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.stop = append(r.stop, enabled)
}

func (r *recorder) LogUpdated(line model.LogLine) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.lines = append(r.lines, line.Text)
}

func (r *recorder) JobFinished(job model.Job) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.finished = append(r.finished, job)
}

func (r *recorder) lineCount() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return len(r.lines)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "fake-spotdl")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

type fixture struct {
	runner     *Runner
	log        *joblog.Log
	rec        *recorder
	interrupts atomic.Int32
}

func newFixture(t *testing.T, tool string, mutate func(*Config)) *fixture {
	t.Helper()

	out, err := joblog.OpenFresh(filepath.Join(t.TempDir(), joblog.DefaultFileName))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ToolPath = tool
	cfg.StopGrace = 2 * time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	f := &fixture{log: out, rec: &recorder{}}
	f.runner, err = NewRunner(cfg, out, f.rec)
	require.NoError(t, err)
	f.runner.interrupt = func(p *os.Process) error {
		f.interrupts.Add(1)
		return interruptProcess(p)
	}

	t.Cleanup(func() {
		f.runner.Close()
		require.NoError(t, out.Close())
	})
	return f
}

func (f *fixture) logLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.log.Path())
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func waitJob(t *testing.T, h *Handle) model.Job {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	job, err := h.Wait(ctx)
	require.NoError(t, err, "job did not finish")
	return job
}

func TestRunnerEndToEnd(t *testing.T) {
	tool := writeScript(t, `
printf 'Found 3 songs\n'
printf 'Downloaded: TrackA\n'
printf 'Skipping: TrackB (exists)\n'
printf 'Downloaded: TrackC\n'
sleep 30`)
	f := newFixture(t, tool, nil)

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)
	require.True(t, f.runner.IsActive())

	job := waitJob(t, h)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.True(t, job.TotalKnown)
	require.Equal(t, 3, job.Total)
	require.Equal(t, 3, job.Completed)
	require.Empty(t, job.LastError)
	require.Equal(t, []string{testURL}, job.Args)
	require.Positive(t, job.PID)
	require.False(t, f.runner.IsActive())

	require.Equal(t, []string{
		"Found 3 songs",
		"1. Downloaded: TrackA",
		"2. Skipping: TrackB (exists)",
		"3. Downloaded: TrackC",
		"Downloaded successfully 3 songs.",
	}, f.logLines(t))

	require.Equal(t, 1, h.Terminations())
	require.EqualValues(t, 1, f.interrupts.Load())

	f.rec.mx.Lock()
	defer f.rec.mx.Unlock()
	require.Equal(t, []int{3}, f.rec.totals)
	require.Equal(t, []int{1, 2, 3}, f.rec.advanced)
	require.Len(t, f.rec.lines, 5)
	require.Equal(t, []bool{false, true}, f.rec.download)
	require.Equal(t, []bool{true, false}, f.rec.stop)
	require.Len(t, f.rec.finished, 1)
	require.Equal(t, h.ID(), f.rec.finished[0].ID)
}

func TestRunnerKeepsLoggingWithoutStopOnComplete(t *testing.T) {
	tool := writeScript(t, `
echo 'Found 1 songs'
echo 'Downloaded: Only'
echo 'Saved playlist file'`)
	f := newFixture(t, tool, func(c *Config) { c.StopOnComplete = false })

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)

	job := waitJob(t, h)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.Equal(t, 0, h.Terminations())
	require.Equal(t, []string{
		"Found 1 songs",
		"1. Downloaded: Only",
		"Downloaded successfully 1 songs.",
		"Saved playlist file",
	}, f.logLines(t))
}

func TestRunnerStopTwice(t *testing.T) {
	tool := writeScript(t, `
echo 'Found 5 songs'
sleep 30`)
	f := newFixture(t, tool, nil)

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.rec.lineCount() >= 1 }, 10*time.Second, 10*time.Millisecond)

	require.NoError(t, f.runner.StopActive())
	job := h.Job()
	require.Equal(t, model.JobStatusStopped, job.Status)
	require.Equal(t, 5, job.Total)
	require.Equal(t, 0, job.Completed)
	require.Equal(t, 1, h.Terminations())
	require.False(t, f.runner.IsActive())

	require.ErrorIs(t, f.runner.StopActive(), model.ErrNoActiveJob)
	require.ErrorIs(t, f.runner.Stop(h), model.ErrNoActiveJob)
	require.ErrorIs(t, f.runner.Stop(nil), model.ErrNoActiveJob)

	lines := f.logLines(t)
	require.Equal(t, StoppedMessage, lines[len(lines)-1])
}

func TestRunnerKillsAfterGrace(t *testing.T) {
	tool := writeScript(t, `
trap '' TERM
echo 'Found 2 songs'
while :; do sleep 1; done`)
	f := newFixture(t, tool, func(c *Config) { c.StopGrace = 300 * time.Millisecond })

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.rec.lineCount() >= 1 }, 10*time.Second, 10*time.Millisecond)

	start := time.Now()
	require.NoError(t, f.runner.Stop(h))
	require.Less(t, time.Since(start), 10*time.Second)
	require.Equal(t, model.JobStatusStopped, h.Job().Status)
	require.Equal(t, 1, h.Terminations())
}

func TestRunnerStopsWhenContextCancelled(t *testing.T) {
	tool := writeScript(t, `
echo 'Found 2 songs'
sleep 30`)
	f := newFixture(t, tool, nil)

	ctx, cancel := context.WithCancel(context.Background())
	h, err := f.runner.Start(ctx, model.JobOptions{URL: testURL})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.rec.lineCount() >= 1 }, 10*time.Second, 10*time.Millisecond)

	cancel()
	job := waitJob(t, h)
	require.Equal(t, model.JobStatusStopped, job.Status)
}

func TestRunnerAlreadyRunning(t *testing.T) {
	tool := writeScript(t, `sleep 30`)
	f := newFixture(t, tool, nil)

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)

	_, err = f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.ErrorIs(t, err, model.ErrAlreadyRunning)
	_, err = f.runner.StartUtility(context.Background(), FFmpegInstallArgs, FFmpegInstallAnswer)
	require.ErrorIs(t, err, model.ErrAlreadyRunning)
	require.Same(t, h, f.runner.Active())

	require.NoError(t, f.runner.Stop(h))
}

func TestRunnerValidationSpawnsNothing(t *testing.T) {
	tool := writeScript(t, `echo should-not-run`)
	f := newFixture(t, tool, nil)

	_, err := f.runner.Start(context.Background(), model.JobOptions{URL: "  "})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "url", verr.Field)
	require.False(t, f.runner.IsActive())

	f.rec.mx.Lock()
	defer f.rec.mx.Unlock()
	require.Empty(t, f.rec.download)
	require.Empty(t, f.rec.lines)
}

func TestRunnerSpawnError(t *testing.T) {
	f := newFixture(t, filepath.Join(t.TempDir(), "missing-spotdl"), nil)

	_, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	var serr *model.SpawnError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Tool, "missing-spotdl")
	require.False(t, f.runner.IsActive())
	require.ErrorIs(t, f.runner.StopActive(), model.ErrNoActiveJob)
}

func TestRunnerCreatesOutputDir(t *testing.T) {
	tool := writeScript(t, `echo "args: $*"`)
	f := newFixture(t, tool, nil)

	dir := filepath.Join(t.TempDir(), "music", "playlist")
	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL, OutputDir: dir})
	require.NoError(t, err)
	job := waitJob(t, h)

	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.DirExists(t, dir)
	require.Equal(t, []string{"args: " + testURL + " --output " + dir}, f.logLines(t))
}

func TestRunnerOutputDirFailure(t *testing.T) {
	tool := writeScript(t, `echo unreachable`)
	f := newFixture(t, tool, nil)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL, OutputDir: filepath.Join(file, "sub")})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "output", verr.Field)
	require.False(t, f.runner.IsActive())
}

func TestRunnerFailedExit(t *testing.T) {
	tool := writeScript(t, `
echo 'Found 2 songs'
echo 'Downloaded: One'
echo 'network exploded' >&2
exit 3`)
	f := newFixture(t, tool, nil)

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)
	job := waitJob(t, h)

	require.Equal(t, model.JobStatusFailed, job.Status)
	require.Contains(t, job.LastError, "exit status 3")
	require.Equal(t, 1, job.Completed)

	lines := f.logLines(t)
	require.Equal(t, []string{"Found 2 songs", "1. Downloaded: One", "network exploded"}, lines[:3])
	require.True(t, strings.HasPrefix(lines[3], "Download failed: "), lines[3])
}

func TestRunnerUtilityJob(t *testing.T) {
	tool := writeScript(t, `
echo "args: $*"
echo 'Overwrite existing FFmpeg? (y/N)'
read answer
echo "answer: $answer"
echo 'Found 2 songs'`)
	f := newFixture(t, tool, nil)

	h, err := f.runner.StartUtility(context.Background(), FFmpegInstallArgs, FFmpegInstallAnswer)
	require.NoError(t, err)
	job := waitJob(t, h)

	require.Equal(t, model.JobKindUtility, job.Kind)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.Equal(t, []string{
		"args: --download-ffmpeg",
		"Overwrite existing FFmpeg? (y/N)",
		"answer: y",
		"Found 2 songs",
	}, f.logLines(t))
	require.ErrorIs(t, h.WriteInput("late\n"), ErrInputClosed)

	f.rec.mx.Lock()
	defer f.rec.mx.Unlock()
	require.Empty(t, f.rec.totals)
}

func TestRunnerUtilityValidation(t *testing.T) {
	f := newFixture(t, writeScript(t, `true`), nil)

	_, err := f.runner.StartUtility(context.Background(), nil, "")
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "args", verr.Field)
}

func TestRunnerDecodesOutputEncoding(t *testing.T) {
	tool := writeScript(t, `printf 'Caf\351 del Mar\n'`)
	f := newFixture(t, tool, func(c *Config) { c.Encoding = "windows-1252" })

	h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
	require.NoError(t, err)
	waitJob(t, h)

	require.Equal(t, []string{"Café del Mar"}, f.logLines(t))
}

func TestRunnerSequentialJobs(t *testing.T) {
	tool := writeScript(t, `echo done`)
	f := newFixture(t, tool, nil)

	for range 3 {
		h, err := f.runner.Start(context.Background(), model.JobOptions{URL: testURL})
		require.NoError(t, err)
		waitJob(t, h)
	}
	require.Equal(t, []string{"done", "done", "done"}, f.logLines(t))
}

func TestNewRunnerRejectsUnknownEncoding(t *testing.T) {
	out, err := joblog.OpenFresh(filepath.Join(t.TempDir(), joblog.DefaultFileName))
	require.NoError(t, err)
	defer out.Close()

	cfg := DefaultConfig()
	cfg.Encoding = "klingon-8"
	_, err = NewRunner(cfg, out, nil)
	require.Error(t, err)

	_, err = NewRunner(DefaultConfig(), nil, nil)
	require.Error(t, err)
}
