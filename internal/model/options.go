package model

import (
	"net/url"
	"runtime"
	"slices"
	"strings"
)

// Audio sources accepted by spotdl --audio
var AudioSources = []string{"youtube", "youtube-music", "slider-kz", "soundcloud", "bandcamp", "piped"}

// Lyrics sources accepted by spotdl --lyrics
var LyricsSources = []string{"genius", "musixmatch", "azlyrics", "synced"}

// Output formats accepted by spotdl --format
var Formats = []string{"mp3", "flac", "ogg", "opus", "m4a", "wav"}

// Bitrates accepted by spotdl --bitrate
var Bitrates = []string{
	"auto", "disable", "8k", "16k", "24k", "32k", "40k", "48k", "64k", "80k",
	"96k", "112k", "128k", "160k", "192k", "224k", "256k", "320k",
}

// Log levels accepted by spotdl --log-level
var LogLevels = []string{"CRITICAL", "FATAL", "ERROR", "WARN", "WARNING", "INFO", "MATCH", "DEBUG", "NOTSET"}

// Default values
const (
	DefaultAudioSource = "youtube-music"
	DefaultFormat      = "mp3"
	DefaultBitrate     = "320k"
	DefaultOutputDir   = "Download"
	DefaultLogLevel    = "INFO"

	MaxThreads = 256
)

// JobOptions is the user-chosen configuration of one download job.
// Empty string fields and zero numbers mean "not set": the matching flag is omitted.
type JobOptions struct {
	URL          string          `yaml:"url"`
	AudioSource  string          `yaml:"audio"`
	LyricsSource string          `yaml:"lyrics"`
	Format       string          `yaml:"format"`
	Bitrate      string          `yaml:"bitrate"`
	FFmpegArgs   string          `yaml:"ffmpeg_args"`
	OutputDir    string          `yaml:"output"`
	Threads      int             `yaml:"threads"`
	Advanced     AdvancedOptions `yaml:"advanced"`
}

// AdvancedOptions are the less common spotdl switches.
type AdvancedOptions struct {
	LogLevel            string `yaml:"log_level"`
	DontFilterResults   bool   `yaml:"dont_filter_results"`
	OnlyVerifiedResults bool   `yaml:"only_verified_results"`
	Headless            bool   `yaml:"headless"`
	NoCache             bool   `yaml:"no_cache"`
	Preload             bool   `yaml:"preload"`
	M3U                 bool   `yaml:"m3u"`
	FetchAlbums         bool   `yaml:"fetch_albums"`
	GenerateLRC         bool   `yaml:"generate_lrc"`
	SponsorBlock        bool   `yaml:"sponsor_block"`
	MaxRetries          int    `yaml:"max_retries"`
	MaxFilenameLength   int    `yaml:"max_filename_length"`
	YTDLPArgs           string `yaml:"yt_dlp_args"`
	Proxy               string `yaml:"proxy"`
}

// DefaultJobOptions returns the options preselected in the form
func DefaultJobOptions() JobOptions {
	return JobOptions{
		AudioSource: DefaultAudioSource,
		Format:      DefaultFormat,
		Bitrate:     DefaultBitrate,
		OutputDir:   DefaultOutputDir,
		Threads:     runtime.NumCPU(),
		Advanced: AdvancedOptions{
			LogLevel: DefaultLogLevel,
		},
	}
}

// Normalized returns a copy with surrounding whitespace removed from text fields
func (o JobOptions) Normalized() JobOptions {
	o.URL = strings.TrimSpace(o.URL)
	o.AudioSource = strings.TrimSpace(o.AudioSource)
	o.LyricsSource = strings.TrimSpace(o.LyricsSource)
	o.Format = strings.TrimSpace(o.Format)
	o.Bitrate = strings.TrimSpace(o.Bitrate)
	o.FFmpegArgs = strings.TrimSpace(o.FFmpegArgs)
	o.OutputDir = strings.TrimSpace(o.OutputDir)
	o.Advanced.LogLevel = strings.TrimSpace(o.Advanced.LogLevel)
	o.Advanced.YTDLPArgs = strings.TrimSpace(o.Advanced.YTDLPArgs)
	o.Advanced.Proxy = strings.TrimSpace(o.Advanced.Proxy)
	return o
}

// Validate checks the options and returns a *ValidationError for the first bad field
func (o JobOptions) Validate() error {
	if err := validateURL(o.URL); err != nil {
		return err
	}

	enums := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"audio", o.AudioSource, AudioSources},
		{"lyrics", o.LyricsSource, LyricsSources},
		{"format", o.Format, Formats},
		{"bitrate", o.Bitrate, Bitrates},
		{"log-level", o.Advanced.LogLevel, LogLevels},
	}
	for _, e := range enums {
		if e.value != "" && !slices.Contains(e.allowed, e.value) {
			return &ValidationError{Field: e.field, Reason: "unsupported value " + e.value}
		}
	}

	if o.Threads < 0 || o.Threads > MaxThreads {
		return &ValidationError{Field: "threads", Reason: "must be between 0 and 256"}
	}
	if o.Advanced.MaxRetries < 0 {
		return &ValidationError{Field: "max-retries", Reason: "must not be negative"}
	}
	if o.Advanced.MaxFilenameLength < 0 {
		return &ValidationError{Field: "max-filename-length", Reason: "must not be negative"}
	}

	texts := []struct {
		field string
		value string
	}{
		{"ffmpeg-args", o.FFmpegArgs},
		{"output", o.OutputDir},
		{"yt-dlp-args", o.Advanced.YTDLPArgs},
		{"proxy", o.Advanced.Proxy},
	}
	for _, t := range texts {
		if strings.ContainsAny(t.value, "\r\n\x00") {
			return &ValidationError{Field: t.field, Reason: "must be a single line"}
		}
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return &ValidationError{Field: "url", Reason: "is required"}
	}
	if strings.ContainsAny(raw, " \t\r\n\x00") {
		return &ValidationError{Field: "url", Reason: "must not contain whitespace"}
	}
	if strings.HasPrefix(raw, "-") {
		return &ValidationError{Field: "url", Reason: "must not look like a flag"}
	}

	// spotify:track:... URIs are passed through untouched
	if !strings.Contains(raw, "://") {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Reason: "must start with http:// or https://"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Reason: "has no host"}
	}
	return nil
}
