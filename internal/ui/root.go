package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/spotdl-desktop/internal/config"
	"github.com/ytget/spotdl-desktop/internal/download"
	"github.com/ytget/spotdl-desktop/internal/model"
	"github.com/ytget/spotdl-desktop/internal/platform"
)

// DashPlaceholder is shown for optional choices that are not set
const DashPlaceholder = "—"

// ToolchainChecker verifies or installs the downloader
type ToolchainChecker interface {
	EnsureTool(ctx context.Context) (version string, installed bool, err error)
}

// RootUI represents the main UI structure
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	runner       download.JobRunner
	toolchain    ToolchainChecker

	urlEntry        *widget.Entry
	outputEntry     *widget.Entry
	ffmpegArgsEntry *widget.Entry
	threadsEntry    *widget.Entry
	audioSelect     *widget.Select
	lyricsSelect    *widget.Select
	formatSelect    *widget.Select
	bitrateSelect   *widget.Select

	browseBtn     *widget.Button
	downloadBtn   *widget.Button
	stopBtn       *widget.Button
	installBtn    *widget.Button
	openFolderBtn *widget.Button
	settingsBtn   *widget.Button

	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	tabs          *container.AppTabs
	optionsTab    *container.TabItem
	outputTab     *container.TabItem
	logList       *widget.List
	labels        map[string]*widget.Label

	// edited in the settings dialog
	advanced model.AdvancedOptions

	// owned by the UI goroutine
	logLines   []string
	total      int
	totalKnown bool
	completed  int

	installing atomic.Bool

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	hideMu                sync.Mutex
	hideTimer             *time.Timer
}

// NewRootUI creates and initializes the main UI. notifier is the one the
// runner reports to; it starts forwarding to this UI.
func NewRootUI(window fyne.Window, settings *config.Settings, runner download.JobRunner, toolchain ToolchainChecker, notifier *Notifier) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          context.Background(),
		window:       window,
		settings:     settings,
		localization: localization,
		runner:       runner,
		toolchain:    toolchain,
		labels:       make(map[string]*widget.Label),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	ui.loadOptions(settings.GetLastOptions())

	if notifier != nil {
		notifier.bind(ui)
	}
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	topPanel := container.NewBorder(nil, nil, ui.settingsBtn, nil, ui.urlEntry)

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string { return "" }
	ui.progressLabel = widget.NewLabel(fmt.Sprintf(ProgressUnknownTotal, 0))
	progressRow := container.NewBorder(nil, nil, nil, ui.progressLabel, ui.progressBar)

	// Notification panel under the progress bar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	top := container.NewVBox(topPanel, progressRow, ui.notificationContainer)

	ui.optionsTab = container.NewTabItem(ui.localization.GetText(KeyOptionsTab), ui.createOptionsForm())
	ui.outputTab = container.NewTabItem(ui.localization.GetText(KeyOutputTab), ui.createOutputView())
	ui.tabs = container.NewAppTabs(ui.optionsTab, ui.outputTab)

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.stopBtn = widget.NewButton(ui.localization.GetText(KeyStop), ui.onStopClick)
	ui.stopBtn.Disable()
	ui.installBtn = widget.NewButton(ui.localization.GetText(KeyInstall), ui.onInstallClick)
	ui.openFolderBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyOpenFolder), ui.onOpenFolderClick)
	buttons := container.NewHBox(ui.downloadBtn, ui.stopBtn, layout.NewSpacer(), ui.installBtn, ui.openFolderBtn)

	ui.window.SetContent(container.NewBorder(top, buttons, nil, nil, ui.tabs))
}

func (ui *RootUI) label(key string) *widget.Label {
	l := widget.NewLabel(ui.localization.GetText(key))
	ui.labels[key] = l
	return l
}

// createOptionsForm builds the job options tab
func (ui *RootUI) createOptionsForm() fyne.CanvasObject {
	ui.audioSelect = widget.NewSelect(model.AudioSources, nil)
	ui.lyricsSelect = widget.NewSelect(withPlaceholder(model.LyricsSources), nil)
	ui.formatSelect = widget.NewSelect(model.Formats, nil)
	ui.bitrateSelect = widget.NewSelect(model.Bitrates, nil)

	ui.ffmpegArgsEntry = widget.NewEntry()
	ui.ffmpegArgsEntry.SetPlaceHolder("-ac 2")

	ui.threadsEntry = widget.NewEntry()
	ui.threadsEntry.SetPlaceHolder(fmt.Sprintf("1-%d", model.MaxThreads))
	ui.threadsEntry.Validator = validateCount

	ui.outputEntry = widget.NewEntry()
	ui.browseBtn = widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onBrowseDirectory)
	outputRow := container.NewBorder(nil, nil, nil, ui.browseBtn, ui.outputEntry)

	return container.NewVScroll(container.New(layout.NewFormLayout(),
		ui.label(KeyAudioSource), ui.audioSelect,
		ui.label(KeyLyricsSource), ui.lyricsSelect,
		ui.label(KeyFormat), ui.formatSelect,
		ui.label(KeyBitrate), ui.bitrateSelect,
		ui.label(KeyFFmpegArgs), ui.ffmpegArgsEntry,
		ui.label(KeyThreads), ui.threadsEntry,
		ui.label(KeyOutputDirectory), outputRow,
	))
}

// createOutputView builds the tab that mirrors the tool output
func (ui *RootUI) createOutputView() fyne.CanvasObject {
	ui.logList = widget.NewList(
		func() int {
			return len(ui.logLines)
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.logLines) {
				obj.(*widget.Label).SetText(ui.logLines[id])
			}
		},
	)
	return ui.logList
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.stopBtn.SetText(ui.localization.GetText(KeyStop))
	ui.installBtn.SetText(ui.localization.GetText(KeyInstall))
	ui.openFolderBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyOpenFolder))
	ui.browseBtn.SetText(ui.localization.GetText(KeyBrowse))
	for key, l := range ui.labels {
		l.SetText(ui.localization.GetText(key))
	}
	ui.optionsTab.Text = ui.localization.GetText(KeyOptionsTab)
	ui.outputTab.Text = ui.localization.GetText(KeyOutputTab)
	ui.tabs.Refresh()
}

// validateURL reports URL problems while typing; empty is allowed
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	opts := model.JobOptions{URL: input}
	return opts.Normalized().Validate()
}

func validateCount(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if _, err := strconv.Atoi(input); err != nil {
		return errors.New("must be a whole number")
	}
	return nil
}

// loadOptions fills the form
func (ui *RootUI) loadOptions(opts model.JobOptions) {
	ui.urlEntry.SetText(opts.URL)
	ui.audioSelect.SetSelected(opts.AudioSource)
	ui.lyricsSelect.SetSelected(orPlaceholder(opts.LyricsSource))
	ui.formatSelect.SetSelected(opts.Format)
	ui.bitrateSelect.SetSelected(opts.Bitrate)
	ui.ffmpegArgsEntry.SetText(opts.FFmpegArgs)
	if opts.Threads > 0 {
		ui.threadsEntry.SetText(strconv.Itoa(opts.Threads))
	} else {
		ui.threadsEntry.SetText("")
	}
	ui.outputEntry.SetText(opts.OutputDir)
	ui.advanced = opts.Advanced
}

// collectOptions reads the form
func (ui *RootUI) collectOptions() (model.JobOptions, error) {
	opts := model.JobOptions{
		URL:          ui.urlEntry.Text,
		AudioSource:  ui.audioSelect.Selected,
		LyricsSource: fromPlaceholder(ui.lyricsSelect.Selected),
		Format:       ui.formatSelect.Selected,
		Bitrate:      ui.bitrateSelect.Selected,
		FFmpegArgs:   ui.ffmpegArgsEntry.Text,
		OutputDir:    ui.outputEntry.Text,
		Advanced:     ui.advanced,
	}
	if threads := strings.TrimSpace(ui.threadsEntry.Text); threads != "" {
		n, err := strconv.Atoi(threads)
		if err != nil {
			return opts, &model.ValidationError{Field: "threads", Reason: "must be a whole number"}
		}
		opts.Threads = n
	}
	return opts.Normalized(), nil
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	if ui.downloadBtn.Disabled() {
		return
	}
	opts, err := ui.collectOptions()
	if err != nil {
		ui.showError(err)
		return
	}
	if opts.URL == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}

	ui.resetProgress()
	if _, err := ui.runner.Start(ui.ctx, opts); err != nil {
		ui.showError(err)
		return
	}
	ui.settings.SetLastOptions(opts)
	ui.tabs.Select(ui.outputTab)
	ui.showNotification(ui.localization.GetText(KeyDownloadStarted), true)
}

// onStopClick stops the active job; the wait is bounded by the grace period
func (ui *RootUI) onStopClick() {
	ui.showNotification(ui.localization.GetText(KeyStoppingDownload), true)
	go func() {
		if err := ui.runner.StopActive(); err != nil {
			ui.showError(err)
		}
	}()
}

// onInstallClick checks or installs spotdl, then runs its FFmpeg installer
func (ui *RootUI) onInstallClick() {
	if ui.toolchain == nil || !ui.installing.CompareAndSwap(false, true) {
		return
	}
	ui.showNotification(ui.localization.GetText(KeyCheckingTool), true)

	go func() {
		defer ui.installing.Store(false)

		version, installed, err := ui.toolchain.EnsureTool(ui.ctx)
		if err != nil {
			slog.Error("spotdl check failed", slog.String("error", err.Error()))
			ui.showNotification(ui.localization.GetText(KeyToolMissing)+MessageSeparator+err.Error(), false)
			return
		}
		key := KeyToolReady
		if installed {
			key = KeyToolInstalled
		}
		ui.showNotification(fmt.Sprintf("%s (%s)", ui.localization.GetText(key), version), true)

		if _, err := ui.runner.StartUtility(ui.ctx, download.FFmpegInstallArgs, download.FFmpegInstallAnswer); err != nil {
			ui.showError(err)
			return
		}
		fyne.Do(func() { ui.tabs.Select(ui.outputTab) })
	}()
}

// onOpenFolderClick reveals the output directory
func (ui *RootUI) onOpenFolderClick() {
	dir := strings.TrimSpace(ui.outputEntry.Text)
	if dir == "" {
		dir = ui.settings.GetOutputDirectory()
	}
	err := platform.CreateDirectoryIfNotExists(dir)
	if err == nil {
		err = platform.OpenDirectory(dir)
	}
	if err != nil {
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningDir)+MessageSeparator+err.Error(), false)
	}
}

// onBrowseDirectory handles directory browsing
func (ui *RootUI) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.outputEntry.SetText(uri.Path())
	}, ui.window)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	sd := NewSettingsDialog(ui.settings, ui.localization, ui.window, func(adv model.AdvancedOptions) {
		ui.advanced = adv
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	})
	sd.Show(ui.advanced)
}

// showError maps runner errors to localized messages
func (ui *RootUI) showError(err error) {
	var (
		verr *model.ValidationError
		serr *model.SpawnError
		msg  string
	)
	switch {
	case errors.Is(err, model.ErrAlreadyRunning):
		msg = ui.localization.GetText(KeyAlreadyRunning)
	case errors.Is(err, model.ErrNoActiveJob):
		msg = ui.localization.GetText(KeyNoActiveJob)
	case errors.As(err, &verr):
		msg = ui.localization.GetText(KeyInvalidInput) + MessageSeparator + verr.Error()
	case errors.As(err, &serr):
		msg = ui.localization.GetText(KeyToolMissing) + MessageSeparator + serr.Err.Error()
	default:
		msg = ui.localization.GetText(KeyDownloadFailed) + MessageSeparator + err.Error()
	}
	ui.showNotification(msg, false)
}

// showNotification displays a message in the notification panel.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
	if !spinning {
		ui.scheduleHide()
	}
}

func (ui *RootUI) scheduleHide() {
	ui.hideMu.Lock()
	defer ui.hideMu.Unlock()
	if ui.hideTimer != nil {
		ui.hideTimer.Stop()
	}
	ui.hideTimer = time.AfterFunc(NotificationAutoHide, ui.hideNotification)
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

func (ui *RootUI) resetProgress() {
	ui.total, ui.totalKnown, ui.completed = 0, false, 0
	ui.progressBar.Max = 1
	ui.progressBar.SetValue(0)
	ui.refreshProgressLabel()
}

func (ui *RootUI) refreshProgressLabel() {
	if ui.totalKnown {
		ui.progressLabel.SetText(fmt.Sprintf(ProgressFormat, ui.completed, ui.total))
		return
	}
	ui.progressLabel.SetText(fmt.Sprintf(ProgressUnknownTotal, ui.completed))
}

func withPlaceholder(options []string) []string {
	return append([]string{DashPlaceholder}, options...)
}

func orPlaceholder(v string) string {
	if v == "" {
		return DashPlaceholder
	}
	return v
}

func fromPlaceholder(v string) string {
	if v == DashPlaceholder {
		return ""
	}
	return v
}
