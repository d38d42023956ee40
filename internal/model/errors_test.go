package model

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		contains string
	}{
		{&ValidationError{Field: "url", Reason: "is required"}, "invalid url: is required"},
		{&SpawnError{Tool: "spotdl", Err: exec.ErrNotFound}, "failed to start spotdl"},
		{&StreamError{Err: errors.New("boom")}, "output stream failed: boom"},
	}

	for _, test := range tests {
		if !strings.Contains(test.err.Error(), test.contains) {
			t.Errorf("expected %q to contain %q", test.err.Error(), test.contains)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	spawn := &SpawnError{Tool: "spotdl", Err: exec.ErrNotFound}
	if !errors.Is(spawn, exec.ErrNotFound) {
		t.Error("SpawnError should unwrap to the underlying exec error")
	}

	cause := errors.New("decode")
	stream := &StreamError{Err: cause}
	if !errors.Is(stream, cause) {
		t.Error("StreamError should unwrap to its cause")
	}

	var verr *ValidationError
	wrapped := errors.Join(errors.New("context"), &ValidationError{Field: "format", Reason: "unknown"})
	if !errors.As(wrapped, &verr) || verr.Field != "format" {
		t.Errorf("expected ValidationError on field format, got %v", verr)
	}
}
