package download

import (
	"context"

	"github.com/ytget/spotdl-desktop/internal/model"
)

// JobRunner defines the contract the UI and CLI drive.
type JobRunner interface {
	Start(ctx context.Context, opts model.JobOptions) (*Handle, error)
	StartUtility(ctx context.Context, args []string, answer string) (*Handle, error)
	Stop(h *Handle) error
	StopActive() error
	IsActive() bool
	Active() *Handle
	Close()
}

// Notifier receives progress and control-state updates. Methods are called
// from the job worker goroutine and must not block.
type Notifier interface {
	ProgressInitialized(total int)
	ProgressAdvanced(completed int)
	DownloadButtonEnabled(enabled bool)
	StopButtonEnabled(enabled bool)
	LogUpdated(line model.LogLine)
	JobFinished(job model.Job)
}
