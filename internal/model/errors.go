package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned when a job is started while another one is active
	ErrAlreadyRunning = errors.New("a job is already running")
	// ErrNoActiveJob is returned by stop requests when nothing is running
	ErrNoActiveJob = errors.New("no active job to stop")
)

// ValidationError reports an invalid JobOptions field. No process is spawned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SpawnError reports that the external tool is missing or could not be started.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// StreamError reports an unexpected failure while reading the child output.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("output stream failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
