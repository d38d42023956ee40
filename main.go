package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/ytget/spotdl-desktop/internal/config"
	"github.com/ytget/spotdl-desktop/internal/download"
	"github.com/ytget/spotdl-desktop/internal/joblog"
	"github.com/ytget/spotdl-desktop/internal/log"
	"github.com/ytget/spotdl-desktop/internal/platform"
	"github.com/ytget/spotdl-desktop/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.spotdl-desktop"
	AppName = "SpotDL Desktop"

	WindowWidth  = 860
	WindowHeight = 640
)

var (
	flagVerbose  bool
	flagJSONLog  bool
	flagTool     string
	flagLogFile  string
	flagGrace    int
	flagEncoding string
	flagPython   string
)

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "log diagnostics as JSON")
	rootCmd.PersistentFlags().StringVar(&flagTool, "tool", download.DefaultTool, "spotdl executable")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", joblog.DefaultFileName, "file receiving the tool output")
	rootCmd.PersistentFlags().IntVar(&flagGrace, "grace", config.DefaultStopGraceSeconds, "seconds a stopped job may take before it is killed")
	rootCmd.PersistentFlags().StringVar(&flagEncoding, "encoding", download.DefaultEncoding, "encoding of the tool output")
	rootCmd.PersistentFlags().StringVar(&flagPython, "python", platform.DefaultPython(), "python interpreter used to install spotdl")

	// never print messages
	rootCmd.SilenceErrors = true
	rootCmd.PersistentPreRun = initLogging

	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(ffmpegCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("spotdl-desktop failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "spotdl-desktop",
	Short:        "Desktop front end for spotdl",
	SilenceUsage: true,
	RunE:         doGUI,
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "open the download window (default)",
	RunE:  doGUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spotdl-desktop: %s\n", version)
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fmt.Printf("go:     %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit: %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:   %s\n", s.Value)
			}
		}
	},
}

func initLogging(_ *cobra.Command, _ []string) {
	slog.SetDefault(log.New(log.Options{
		Verbose: flagVerbose,
		JSON:    flagJSONLog,
	}))
}

func doGUI(cmd *cobra.Command, _ []string) error {
	slog.Info("starting", slog.String("app", AppName), slog.String("version", version))

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewAppTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	applyFlagOverrides(cmd, settings)

	output, err := joblog.OpenFresh(settings.GetLogPath())
	if err != nil {
		return fmt.Errorf("opening output log: %w", err)
	}
	defer func() {
		_ = output.Close()
	}()

	notifier := ui.NewNotifier()
	runner, err := download.NewRunner(settings.RunnerConfig(), output, notifier, download.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer runner.Close()

	toolchain := platform.NewToolchain(settings.GetToolPath(), flagPython)
	ui.NewRootUI(myWindow, settings, runner, toolchain, notifier)

	myWindow.ShowAndRun()
	return nil
}

// applyFlagOverrides stores explicitly given flags in the preferences
func applyFlagOverrides(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("tool") {
		settings.SetToolPath(flagTool)
	}
	if flags.Changed("log-file") {
		settings.SetLogPath(flagLogFile)
	}
	if flags.Changed("grace") {
		settings.SetStopGrace(graceDuration())
	}
	if flags.Changed("encoding") {
		settings.SetOutputEncoding(flagEncoding)
	}
}
