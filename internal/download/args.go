package download

import (
	"strconv"

	"github.com/alessio/shellescape"

	"github.com/ytget/spotdl-desktop/internal/model"
)

// DefaultTool is looked up on the command search path
const DefaultTool = "spotdl"

// spotdl flags
const (
	FlagAudio             = "--audio"
	FlagLyrics            = "--lyrics"
	FlagFormat            = "--format"
	FlagBitrate           = "--bitrate"
	FlagFFmpegArgs        = "--ffmpeg-args"
	FlagOutput            = "--output"
	FlagThreads           = "--threads"
	FlagLogLevel          = "--log-level"
	FlagDontFilterResults = "--dont-filter-results"
	FlagOnlyVerified      = "--only-verified-results"
	FlagHeadless          = "--headless"
	FlagNoCache           = "--no-cache"
	FlagPreload           = "--preload"
	FlagM3U               = "--m3u"
	FlagFetchAlbums       = "--fetch-albums"
	FlagGenerateLRC       = "--generate-lrc"
	FlagSponsorBlock      = "--sponsor-block"
	FlagMaxRetries        = "--max-retries"
	FlagMaxFilenameLength = "--max-filename-length"
	FlagYTDLPArgs         = "--yt-dlp-args"
	FlagProxy             = "--proxy"
	FlagDownloadFFmpeg    = "--download-ffmpeg"
	FlagVersion           = "--version"
)

// FFmpegInstallArgs runs the tool's bundled FFmpeg installer
var FFmpegInstallArgs = []string{FlagDownloadFFmpeg}

// FFmpegInstallAnswer confirms the installer's overwrite prompt
const FFmpegInstallAnswer = "y\n"

// BuildArgs renders options into an argument vector, URL first. A flag is
// present exactly when its field is set. Free text fields are single elements,
// nothing is ever interpreted by a shell.
func BuildArgs(o model.JobOptions) []string {
	args := []string{o.URL}

	args = appendValue(args, FlagAudio, o.AudioSource)
	args = appendValue(args, FlagLyrics, o.LyricsSource)
	args = appendValue(args, FlagFormat, o.Format)
	args = appendValue(args, FlagBitrate, o.Bitrate)
	args = appendValue(args, FlagFFmpegArgs, o.FFmpegArgs)
	args = appendValue(args, FlagOutput, o.OutputDir)
	args = appendCount(args, FlagThreads, o.Threads)

	a := o.Advanced
	args = appendValue(args, FlagLogLevel, a.LogLevel)
	args = appendSwitch(args, FlagDontFilterResults, a.DontFilterResults)
	args = appendSwitch(args, FlagOnlyVerified, a.OnlyVerifiedResults)
	args = appendSwitch(args, FlagHeadless, a.Headless)
	args = appendSwitch(args, FlagNoCache, a.NoCache)
	args = appendSwitch(args, FlagPreload, a.Preload)
	args = appendSwitch(args, FlagM3U, a.M3U)
	args = appendSwitch(args, FlagFetchAlbums, a.FetchAlbums)
	args = appendSwitch(args, FlagGenerateLRC, a.GenerateLRC)
	args = appendSwitch(args, FlagSponsorBlock, a.SponsorBlock)
	args = appendCount(args, FlagMaxRetries, a.MaxRetries)
	args = appendCount(args, FlagMaxFilenameLength, a.MaxFilenameLength)
	args = appendValue(args, FlagYTDLPArgs, a.YTDLPArgs)
	args = appendValue(args, FlagProxy, a.Proxy)

	return args
}

// CommandLine renders tool and args as a copy-pasteable POSIX shell command
func CommandLine(tool string, args []string) string {
	return shellescape.QuoteCommand(append([]string{tool}, args...))
}

func appendValue(args []string, flag, value string) []string {
	if value == "" {
		return args
	}
	return append(args, flag, value)
}

func appendCount(args []string, flag string, n int) []string {
	if n <= 0 {
		return args
	}
	return append(args, flag, strconv.Itoa(n))
}

func appendSwitch(args []string, flag string, on bool) []string {
	if !on {
		return args
	}
	return append(args, flag)
}
