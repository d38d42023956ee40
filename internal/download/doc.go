// Package download runs the external downloader (spotdl) as a child process.
// It owns the single active job, streams the combined output through the
// progress tracker into the shared log, reports progress to a Notifier, and
// stops the process group after a bounded grace period.
package download
