package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ytget/spotdl-desktop/internal/config"
	"github.com/ytget/spotdl-desktop/internal/download"
	"github.com/ytget/spotdl-desktop/internal/joblog"
	"github.com/ytget/spotdl-desktop/internal/log"
	"github.com/ytget/spotdl-desktop/internal/model"
	"github.com/ytget/spotdl-desktop/internal/platform"
)

var ffmpegCmd = &cobra.Command{
	Use:   "ffmpeg",
	Short: "let spotdl download its FFmpeg build",
	RunE:  doFFmpeg,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "verify spotdl is installed, installing it with pip when missing",
	RunE:  doCheck,
}

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "follow the output log of a running job",
	RunE:  doTail,
}

// downloadFlags are the job options given on the command line
type downloadFlags struct {
	preset  string
	options model.JobOptions
}

func newDownloadCmd() *cobra.Command {
	cmd, _ := downloadCommand()
	return cmd
}

func downloadCommand() (*cobra.Command, *downloadFlags) {
	df := &downloadFlags{options: model.DefaultJobOptions()}
	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "download a track, album or playlist without the window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := df.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			return runJob(cmd.Context(), func(ctx context.Context, r *download.Runner) (*download.Handle, error) {
				return r.Start(ctx, opts)
			})
		},
	}

	o := &df.options
	f := cmd.Flags()
	f.StringVar(&df.preset, "preset", "", "YAML file with job options; flags override it")
	f.StringVar(&o.AudioSource, "audio", o.AudioSource, "audio provider")
	f.StringVar(&o.LyricsSource, "lyrics", "", "lyrics provider")
	f.StringVar(&o.Format, "format", o.Format, "output format")
	f.StringVar(&o.Bitrate, "bitrate", o.Bitrate, "output bitrate")
	f.StringVar(&o.FFmpegArgs, "ffmpeg-args", "", "extra FFmpeg arguments")
	f.StringVar(&o.OutputDir, "output", o.OutputDir, "output directory")
	f.IntVar(&o.Threads, "threads", o.Threads, "download threads")

	a := &o.Advanced
	f.StringVar(&a.LogLevel, "log-level", a.LogLevel, "spotdl log level")
	f.BoolVar(&a.DontFilterResults, "dont-filter-results", false, "keep unfiltered search results")
	f.BoolVar(&a.OnlyVerifiedResults, "only-verified-results", false, "use only verified results")
	f.BoolVar(&a.Headless, "headless", false, "run the browser headless")
	f.BoolVar(&a.NoCache, "no-cache", false, "disable the spotdl cache")
	f.BoolVar(&a.Preload, "preload", false, "preload download URLs")
	f.BoolVar(&a.M3U, "m3u", false, "write an M3U playlist")
	f.BoolVar(&a.FetchAlbums, "fetch-albums", false, "fetch the albums of every song")
	f.BoolVar(&a.GenerateLRC, "generate-lrc", false, "write LRC lyrics files")
	f.BoolVar(&a.SponsorBlock, "sponsor-block", false, "remove sponsor segments")
	f.IntVar(&a.MaxRetries, "max-retries", 0, "retries per song")
	f.IntVar(&a.MaxFilenameLength, "max-filename-length", 0, "maximum file name length")
	f.StringVar(&a.YTDLPArgs, "yt-dlp-args", "", "extra yt-dlp arguments")
	f.StringVar(&a.Proxy, "proxy", "", "proxy URL")
	return cmd, df
}

// flagFields maps flag names to the option they set
var flagFields = map[string]func(dst, src *model.JobOptions){
	"audio":                 func(d, s *model.JobOptions) { d.AudioSource = s.AudioSource },
	"lyrics":                func(d, s *model.JobOptions) { d.LyricsSource = s.LyricsSource },
	"format":                func(d, s *model.JobOptions) { d.Format = s.Format },
	"bitrate":               func(d, s *model.JobOptions) { d.Bitrate = s.Bitrate },
	"ffmpeg-args":           func(d, s *model.JobOptions) { d.FFmpegArgs = s.FFmpegArgs },
	"output":                func(d, s *model.JobOptions) { d.OutputDir = s.OutputDir },
	"threads":               func(d, s *model.JobOptions) { d.Threads = s.Threads },
	"log-level":             func(d, s *model.JobOptions) { d.Advanced.LogLevel = s.Advanced.LogLevel },
	"dont-filter-results":   func(d, s *model.JobOptions) { d.Advanced.DontFilterResults = s.Advanced.DontFilterResults },
	"only-verified-results": func(d, s *model.JobOptions) { d.Advanced.OnlyVerifiedResults = s.Advanced.OnlyVerifiedResults },
	"headless":              func(d, s *model.JobOptions) { d.Advanced.Headless = s.Advanced.Headless },
	"no-cache":              func(d, s *model.JobOptions) { d.Advanced.NoCache = s.Advanced.NoCache },
	"preload":               func(d, s *model.JobOptions) { d.Advanced.Preload = s.Advanced.Preload },
	"m3u":                   func(d, s *model.JobOptions) { d.Advanced.M3U = s.Advanced.M3U },
	"fetch-albums":          func(d, s *model.JobOptions) { d.Advanced.FetchAlbums = s.Advanced.FetchAlbums },
	"generate-lrc":          func(d, s *model.JobOptions) { d.Advanced.GenerateLRC = s.Advanced.GenerateLRC },
	"sponsor-block":         func(d, s *model.JobOptions) { d.Advanced.SponsorBlock = s.Advanced.SponsorBlock },
	"max-retries":           func(d, s *model.JobOptions) { d.Advanced.MaxRetries = s.Advanced.MaxRetries },
	"max-filename-length":   func(d, s *model.JobOptions) { d.Advanced.MaxFilenameLength = s.Advanced.MaxFilenameLength },
	"yt-dlp-args":           func(d, s *model.JobOptions) { d.Advanced.YTDLPArgs = s.Advanced.YTDLPArgs },
	"proxy":                 func(d, s *model.JobOptions) { d.Advanced.Proxy = s.Advanced.Proxy },
}

// resolve merges the preset with the flags the user actually set
func (df *downloadFlags) resolve(cmd *cobra.Command, url string) (model.JobOptions, error) {
	if df.preset == "" {
		opts := df.options
		opts.URL = url
		return opts, nil
	}

	f, err := os.Open(df.preset)
	if err != nil {
		return model.JobOptions{}, fmt.Errorf("opening preset: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	opts, err := loadPreset(f)
	if err != nil {
		return model.JobOptions{}, fmt.Errorf("parsing preset %s: %w", df.preset, err)
	}

	for name, set := range flagFields {
		if cmd.Flags().Changed(name) {
			set(&opts, &df.options)
		}
	}
	opts.URL = url
	return opts, nil
}

// loadPreset decodes job options on top of the defaults
func loadPreset(r io.Reader) (model.JobOptions, error) {
	opts := model.DefaultJobOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return model.JobOptions{}, err
	}
	return opts, nil
}

func doFFmpeg(cmd *cobra.Command, _ []string) error {
	return runJob(cmd.Context(), func(ctx context.Context, r *download.Runner) (*download.Handle, error) {
		return r.StartUtility(ctx, download.FFmpegInstallArgs, download.FFmpegInstallAnswer)
	})
}

func doCheck(cmd *cobra.Command, _ []string) error {
	ctx := log.ContextAttrs(cmd.Context(), slog.String("cmd", "check"))
	tc := platform.NewToolchain(flagTool, flagPython)
	toolVersion, installed, err := tc.EnsureTool(ctx)
	if err != nil {
		return err
	}
	if installed {
		fmt.Printf("installed spotdl %s\n", toolVersion)
		return nil
	}
	fmt.Printf("spotdl %s\n", toolVersion)
	return nil
}

func doTail(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := colorable.NewColorableStdout()
	w := joblog.NewWatcher(flagLogFile, joblog.DefaultPollInterval)
	err := w.Run(ctx, func(lines []string) {
		for _, l := range lines {
			fmt.Fprintln(out, l)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runJob starts a job on a fresh runner and waits for it. Ctrl-C stops the job.
func runJob(parent context.Context, start func(context.Context, *download.Runner) (*download.Handle, error)) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.ContextAttrs(ctx, slog.Int("pid", os.Getpid()))

	output, err := joblog.OpenFresh(flagLogFile)
	if err != nil {
		return fmt.Errorf("opening output log: %w", err)
	}
	defer func() {
		_ = output.Close()
	}()

	cfg := download.DefaultConfig()
	cfg.ToolPath = flagTool
	cfg.StopGrace = graceDuration()
	cfg.Encoding = flagEncoding

	stdout := colorable.NewColorableStdout()
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	runner, err := download.NewRunner(cfg, output, download.NewLogNotifier(stdout, color), download.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer runner.Close()

	h, err := start(ctx, runner)
	if err != nil {
		return err
	}
	<-h.Done()

	job := h.Job()
	switch job.Status {
	case model.JobStatusFailed:
		return errors.New(job.LastError)
	case model.JobStatusStopped:
		slog.Info("job stopped", slog.String("job_id", job.ID))
	}
	return nil
}

func graceDuration() time.Duration {
	seconds := min(max(flagGrace, config.MinStopGraceSeconds), config.MaxStopGraceSeconds)
	return time.Duration(seconds) * time.Second
}
