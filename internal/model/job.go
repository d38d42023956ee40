package model

import (
	"fmt"
	"strings"
	"time"
)

// JobKind distinguishes playlist downloads from auxiliary tool invocations
type JobKind string

const (
	// JobKindDownload output is classified and drives progress
	JobKindDownload JobKind = "download"
	// JobKindUtility output is logged verbatim (e.g. --download-ffmpeg)
	JobKindUtility JobKind = "utility"
)

// Job is a point-in-time snapshot of one invocation of the external tool
type Job struct {
	ID         string
	Kind       JobKind
	Options    JobOptions
	Args       []string
	PID        int
	Status     JobStatus
	Total      int  // number of items announced by the tool
	TotalKnown bool // Total is meaningful only when set
	Completed  int  // items downloaded or skipped so far
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// LogLine is one line appended to the output log
type LogLine struct {
	Seq  uint64
	Text string
}

// Fraction returns progress as 0.0 to 1.0, or 0 while the total is unknown
func (j *Job) Fraction() float64 {
	if !j.TotalKnown || j.Total <= 0 {
		return 0
	}
	f := float64(j.Completed) / float64(j.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// GetProgressString returns "completed/total", with "?" while the total is unknown
func (j *Job) GetProgressString() string {
	if !j.TotalKnown {
		return fmt.Sprintf("%d/?", j.Completed)
	}
	return fmt.Sprintf("%d/%d", j.Completed, j.Total)
}

// GetElapsedString returns the job run time formatted as hh:mm:ss, or "—" if not started
func (j *Job) GetElapsedString(now time.Time) string {
	if j.StartedAt.IsZero() {
		return "—"
	}

	end := now
	if !j.FinishedAt.IsZero() {
		end = j.FinishedAt
	}
	total := int(end.Sub(j.StartedAt).Seconds())
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns the playlist URL for download jobs or the tool arguments otherwise
func (j *Job) GetDisplayTitle() string {
	if j.Kind == JobKindDownload && j.Options.URL != "" {
		return j.Options.URL
	}
	return strings.Join(j.Args, " ")
}
