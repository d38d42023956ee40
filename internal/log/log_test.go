package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ytget/spotdl-desktop/internal/log"
)

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Options{JSON: true, Writer: &buf})

	ctx := log.ContextAttrs(context.Background(), slog.String("job_id", "job-1"))
	ctx = log.ContextAttrs(ctx, slog.Int("pid", 42))
	logger.InfoContext(ctx, "started", slog.String("tool", "spotdl"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "started", rec["msg"])
	require.Equal(t, "job-1", rec["job_id"])
	require.Equal(t, float64(42), rec["pid"])
	require.Equal(t, "spotdl", rec["tool"])
}

func TestContextAttrsDoesNotAlias(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Options{JSON: true, Writer: &buf})

	parent := log.ContextAttrs(context.Background(), slog.String("a", "1"))
	_ = log.ContextAttrs(parent, slog.String("b", "2"))
	logger.InfoContext(parent, "x")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.NotContains(t, rec, "b")
}

func TestVerbose(t *testing.T) {
	var buf bytes.Buffer
	log.New(log.Options{Writer: &buf}).Debug("hidden")
	require.Empty(t, buf.String())

	log.New(log.Options{Writer: &buf, Verbose: true}).Debug("shown")
	require.Contains(t, buf.String(), "msg=shown")
}

func TestLoggerWithKeepsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Options{JSON: true, Writer: &buf}).With(slog.String("component", "runner"))

	ctx := log.ContextAttrs(context.Background(), slog.String("job_id", "job-2"))
	logger.InfoContext(ctx, "x")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "runner", rec["component"])
	require.Equal(t, "job-2", rec["job_id"])
}
