package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/spotdl-desktop/internal/download"
	"github.com/ytget/spotdl-desktop/internal/model"
)

// Notifier forwards runner notifications to the UI goroutine. It is created
// before the runner and bound once the window exists; earlier calls are dropped.
type Notifier struct {
	mu sync.RWMutex
	ui *RootUI
}

// NewNotifier creates an unbound notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) bind(ui *RootUI) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ui = ui
}

func (n *Notifier) do(fn func(ui *RootUI)) {
	n.mu.RLock()
	ui := n.ui
	n.mu.RUnlock()
	if ui == nil {
		return
	}
	fyne.Do(func() { fn(ui) })
}

func (n *Notifier) ProgressInitialized(total int) {
	n.do(func(ui *RootUI) {
		ui.total = total
		ui.totalKnown = true
		ui.progressBar.Max = float64(max(total, 1))
		ui.progressBar.SetValue(float64(ui.completed))
		ui.refreshProgressLabel()
	})
}

func (n *Notifier) ProgressAdvanced(completed int) {
	n.do(func(ui *RootUI) {
		ui.completed = completed
		ui.progressBar.SetValue(float64(completed))
		ui.refreshProgressLabel()
	})
}

func (n *Notifier) DownloadButtonEnabled(enabled bool) {
	n.do(func(ui *RootUI) {
		setEnabled(ui.downloadBtn, enabled)
		setEnabled(ui.installBtn, enabled)
	})
}

func (n *Notifier) StopButtonEnabled(enabled bool) {
	n.do(func(ui *RootUI) {
		setEnabled(ui.stopBtn, enabled)
	})
}

func (n *Notifier) LogUpdated(line model.LogLine) {
	n.do(func(ui *RootUI) {
		ui.logLines = append(ui.logLines, line.Text)
		if over := len(ui.logLines) - MaxLogLines; over > 0 {
			ui.logLines = append(ui.logLines[:0:0], ui.logLines[over:]...)
		}
		ui.logList.Refresh()
		ui.logList.ScrollToBottom()
	})
}

func (n *Notifier) JobFinished(job model.Job) {
	n.do(func(ui *RootUI) {
		var msg string
		switch {
		case job.Kind == model.JobKindUtility && job.Status == model.JobStatusCompleted:
			msg = ui.localization.GetText(KeyFFmpegFinished)
		case job.Status == model.JobStatusCompleted:
			msg = ui.localization.GetText(KeyDownloadCompleted) + MessageSeparator + job.GetProgressString()
		case job.Status == model.JobStatusStopped:
			msg = ui.localization.GetText(KeyDownloadStopped)
		default:
			msg = ui.localization.GetText(KeyDownloadFailed) + MessageSeparator + job.LastError
		}
		ui.showNotification(msg, false)
	})
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

var _ download.Notifier = (*Notifier)(nil)
