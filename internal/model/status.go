package model

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	// JobStatusPending means the job was created but the process is not spawned yet
	JobStatusPending JobStatus = "Pending"

	// JobStatusDownloading means the child process is running and streaming output
	JobStatusDownloading JobStatus = "Downloading"

	// JobStatusStopping means a termination signal was sent to the child
	JobStatusStopping JobStatus = "Stopping"

	// JobStatusStopped means the job was stopped by user
	JobStatusStopped JobStatus = "Stopped"

	// JobStatusCompleted means every known item was accounted for or the tool exited cleanly
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusFailed means the tool could not run, its output broke, or it exited abnormally
	JobStatusFailed JobStatus = "Failed"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job still owns a child process
func (js JobStatus) IsActive() bool {
	return js == JobStatusPending || js == JobStatusDownloading || js == JobStatusStopping
}

// IsFinished returns true if the job reached a terminal state (completed, stopped, or failed)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusStopped || js == JobStatusFailed
}
