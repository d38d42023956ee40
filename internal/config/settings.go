package config

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"

	"github.com/ytget/spotdl-desktop/internal/download"
	"github.com/ytget/spotdl-desktop/internal/joblog"
	"github.com/ytget/spotdl-desktop/internal/model"
	"github.com/ytget/spotdl-desktop/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyToolPath       = "tool_path"
	KeyOutputDir      = "output_directory"
	KeyLogPath        = "log_path"
	KeyStopGrace      = "stop_grace_seconds"
	KeyOutputEncoding = "output_encoding"
	KeyStopOnComplete = "stop_on_complete"
	KeyLanguage       = "app_language"
	KeyLastOptions    = "last_job_options"
)

// Default values
const (
	DefaultStopGraceSeconds = 5
	DefaultLanguage         = "system"
	DefaultStopOnComplete   = true

	MinStopGraceSeconds = 1
	MaxStopGraceSeconds = 60
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetToolPath returns the downloader executable
func (s *Settings) GetToolPath() string {
	return s.app.Preferences().StringWithFallback(KeyToolPath, download.DefaultTool)
}

// SetToolPath sets the downloader executable; empty restores the default
func (s *Settings) SetToolPath(path string) {
	if path == "" {
		path = download.DefaultTool
	}
	s.app.Preferences().SetString(KeyToolPath, path)
}

// GetOutputDirectory returns the configured output directory
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeMusicDir()
		if err != nil {
			defaultDir = model.DefaultOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetLogPath returns the path of the shared output log
func (s *Settings) GetLogPath() string {
	return s.app.Preferences().StringWithFallback(KeyLogPath, joblog.DefaultFileName)
}

// SetLogPath sets the path of the shared output log
func (s *Settings) SetLogPath(path string) {
	if path == "" {
		path = joblog.DefaultFileName
	}
	s.app.Preferences().SetString(KeyLogPath, path)
}

// GetStopGrace returns how long a stopped job may take to exit
func (s *Settings) GetStopGrace() time.Duration {
	seconds := s.app.Preferences().IntWithFallback(KeyStopGrace, DefaultStopGraceSeconds)
	return time.Duration(clamp(seconds, MinStopGraceSeconds, MaxStopGraceSeconds)) * time.Second
}

// SetStopGrace sets the grace period, rounded to seconds and clamped
func (s *Settings) SetStopGrace(d time.Duration) {
	seconds := clamp(int(d.Round(time.Second)/time.Second), MinStopGraceSeconds, MaxStopGraceSeconds)
	s.app.Preferences().SetInt(KeyStopGrace, seconds)
}

// GetOutputEncoding returns the encoding label of the tool output
func (s *Settings) GetOutputEncoding() string {
	return s.app.Preferences().StringWithFallback(KeyOutputEncoding, download.DefaultEncoding)
}

// SetOutputEncoding sets the encoding label of the tool output
func (s *Settings) SetOutputEncoding(label string) {
	if label == "" {
		label = download.DefaultEncoding
	}
	s.app.Preferences().SetString(KeyOutputEncoding, label)
}

// GetStopOnComplete returns whether the tool is stopped once every song is done
func (s *Settings) GetStopOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyStopOnComplete, DefaultStopOnComplete)
}

// SetStopOnComplete sets whether the tool is stopped once every song is done
func (s *Settings) SetStopOnComplete(stop bool) {
	s.app.Preferences().SetBool(KeyStopOnComplete, stop)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetLastOptions returns the options of the last started job, or the
// defaults with the configured output directory.
func (s *Settings) GetLastOptions() model.JobOptions {
	opts := model.DefaultJobOptions()
	opts.OutputDir = s.GetOutputDirectory()

	raw := s.app.Preferences().String(KeyLastOptions)
	if raw == "" {
		return opts
	}
	var stored model.JobOptions
	if err := yaml.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Warn("ignoring stored job options", slog.String("error", err.Error()))
		return opts
	}
	return stored
}

// SetLastOptions remembers opts for the next session
func (s *Settings) SetLastOptions(opts model.JobOptions) {
	data, err := yaml.Marshal(opts)
	if err != nil {
		slog.Warn("failed to store job options", slog.String("error", err.Error()))
		return
	}
	s.app.Preferences().SetString(KeyLastOptions, string(data))
	if opts.OutputDir != "" {
		s.SetOutputDirectory(opts.OutputDir)
	}
}

// RunnerConfig returns the download runner configuration
func (s *Settings) RunnerConfig() download.Config {
	cfg := download.DefaultConfig()
	cfg.ToolPath = s.GetToolPath()
	cfg.StopGrace = s.GetStopGrace()
	cfg.Encoding = s.GetOutputEncoding()
	cfg.StopOnComplete = s.GetStopOnComplete()
	return cfg
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
