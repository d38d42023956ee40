package ui

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/spotdl-desktop/internal/config"
	"github.com/ytget/spotdl-desktop/internal/model"
)

// SettingsDialog edits application settings and the advanced job options
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(model.AdvancedOptions)

	// Application
	toolPathEntry  *widget.Entry
	graceEntry     *widget.Entry
	encodingEntry  *widget.Entry
	stopOnComplete *widget.Check
	languageSelect *widget.Select

	// Advanced
	logLevelSelect  *widget.Select
	switches        []advancedSwitch
	maxRetriesEntry *widget.Entry
	maxNameEntry    *widget.Entry
	ytdlpArgsEntry  *widget.Entry
	proxyEntry      *widget.Entry
}

// advancedSwitch binds a check box to a boolean advanced option
type advancedSwitch struct {
	check *widget.Check
	field func(*model.AdvancedOptions) *bool
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func(model.AdvancedOptions)) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show(adv model.AdvancedOptions) {
	sd.loadCurrentSettings(adv)
	sd.dialog.Show()
}

func (sd *SettingsDialog) text(key string) string {
	return sd.localization.GetText(key)
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.toolPathEntry = widget.NewEntry()
	sd.toolPathEntry.SetPlaceHolder("spotdl")

	sd.graceEntry = widget.NewEntry()
	sd.graceEntry.SetPlaceHolder(strconv.Itoa(config.MinStopGraceSeconds) + "-" + strconv.Itoa(config.MaxStopGraceSeconds))
	sd.graceEntry.Validator = validateCount

	sd.encodingEntry = widget.NewEntry()
	sd.encodingEntry.SetPlaceHolder("utf-8")

	sd.stopOnComplete = widget.NewCheck(sd.text(KeyStopOnComplete), nil)

	languageOptions := make([]string, 0, len(sd.settings.GetLanguageOptions()))
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	slices.Sort(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	application := container.New(layout.NewFormLayout(),
		widget.NewLabel(sd.text(KeyToolPath)), sd.toolPathEntry,
		widget.NewLabel(sd.text(KeyStopGrace)), sd.graceEntry,
		widget.NewLabel(sd.text(KeyEncoding)), sd.encodingEntry,
		widget.NewLabel(sd.text(KeyLanguage)), sd.languageSelect,
	)

	sd.logLevelSelect = widget.NewSelect(withPlaceholder(model.LogLevels), nil)

	sd.switches = []advancedSwitch{
		sd.newSwitch(KeyDontFilter, func(a *model.AdvancedOptions) *bool { return &a.DontFilterResults }),
		sd.newSwitch(KeyOnlyVerified, func(a *model.AdvancedOptions) *bool { return &a.OnlyVerifiedResults }),
		sd.newSwitch(KeyHeadless, func(a *model.AdvancedOptions) *bool { return &a.Headless }),
		sd.newSwitch(KeyNoCache, func(a *model.AdvancedOptions) *bool { return &a.NoCache }),
		sd.newSwitch(KeyPreload, func(a *model.AdvancedOptions) *bool { return &a.Preload }),
		sd.newSwitch(KeyM3U, func(a *model.AdvancedOptions) *bool { return &a.M3U }),
		sd.newSwitch(KeyFetchAlbums, func(a *model.AdvancedOptions) *bool { return &a.FetchAlbums }),
		sd.newSwitch(KeyGenerateLRC, func(a *model.AdvancedOptions) *bool { return &a.GenerateLRC }),
		sd.newSwitch(KeySponsorBlock, func(a *model.AdvancedOptions) *bool { return &a.SponsorBlock }),
	}
	checks := container.NewGridWithColumns(2)
	for _, s := range sd.switches {
		checks.Add(s.check)
	}

	sd.maxRetriesEntry = widget.NewEntry()
	sd.maxRetriesEntry.Validator = validateCount
	sd.maxNameEntry = widget.NewEntry()
	sd.maxNameEntry.Validator = validateCount
	sd.ytdlpArgsEntry = widget.NewEntry()
	sd.proxyEntry = widget.NewEntry()
	sd.proxyEntry.SetPlaceHolder("http://host:port")

	advanced := container.New(layout.NewFormLayout(),
		widget.NewLabel(sd.text(KeyLogLevel)), sd.logLevelSelect,
		widget.NewLabel(sd.text(KeyMaxRetries)), sd.maxRetriesEntry,
		widget.NewLabel(sd.text(KeyMaxFilenameLength)), sd.maxNameEntry,
		widget.NewLabel(sd.text(KeyYTDLPArgs)), sd.ytdlpArgsEntry,
		widget.NewLabel(sd.text(KeyProxy)), sd.proxyEntry,
	)

	form := container.NewVScroll(container.NewVBox(
		widget.NewLabel(sd.text(KeyApplication)),
		widget.NewSeparator(),
		application,
		sd.stopOnComplete,

		widget.NewSeparator(),
		widget.NewLabel(sd.text(KeyAdvanced)),
		widget.NewSeparator(),
		checks,
		advanced,
	))

	sd.dialog = dialog.NewCustomConfirm(
		sd.text(KeySettings),
		sd.text(KeySave),
		sd.text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) newSwitch(key string, field func(*model.AdvancedOptions) *bool) advancedSwitch {
	return advancedSwitch{check: widget.NewCheck(sd.text(key), nil), field: field}
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings(adv model.AdvancedOptions) {
	sd.toolPathEntry.SetText(sd.settings.GetToolPath())
	sd.graceEntry.SetText(strconv.Itoa(int(sd.settings.GetStopGrace() / time.Second)))
	sd.encodingEntry.SetText(sd.settings.GetOutputEncoding())
	sd.stopOnComplete.SetChecked(sd.settings.GetStopOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())

	sd.logLevelSelect.SetSelected(orPlaceholder(adv.LogLevel))
	for _, s := range sd.switches {
		s.check.SetChecked(*s.field(&adv))
	}
	sd.maxRetriesEntry.SetText(countText(adv.MaxRetries))
	sd.maxNameEntry.SetText(countText(adv.MaxFilenameLength))
	sd.ytdlpArgsEntry.SetText(adv.YTDLPArgs)
	sd.proxyEntry.SetText(adv.Proxy)
}

// collectAdvanced reads the advanced options from the UI
func (sd *SettingsDialog) collectAdvanced() model.AdvancedOptions {
	var adv model.AdvancedOptions
	adv.LogLevel = fromPlaceholder(sd.logLevelSelect.Selected)
	for _, s := range sd.switches {
		*s.field(&adv) = s.check.Checked
	}
	adv.MaxRetries = parseCount(sd.maxRetriesEntry.Text)
	adv.MaxFilenameLength = parseCount(sd.maxNameEntry.Text)
	adv.YTDLPArgs = strings.TrimSpace(sd.ytdlpArgsEntry.Text)
	adv.Proxy = strings.TrimSpace(sd.proxyEntry.Text)
	return adv
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetToolPath(strings.TrimSpace(sd.toolPathEntry.Text))
	if seconds := parseCount(sd.graceEntry.Text); seconds > 0 {
		sd.settings.SetStopGrace(time.Duration(seconds) * time.Second)
	}
	sd.settings.SetOutputEncoding(strings.TrimSpace(sd.encodingEntry.Text))
	sd.settings.SetStopOnComplete(sd.stopOnComplete.Checked)
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	if sd.onSaved != nil {
		sd.onSaved(sd.collectAdvanced())
	}

	dialog.ShowInformation(sd.text(KeySettings), sd.text(KeySettingsSaved)+"\n"+sd.text(KeyRestartRequired), sd.window)
}

func countText(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
