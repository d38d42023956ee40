package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alessio/shellescape"
)

// Timeout constants
const (
	DefaultCheckTimeout   = 30 * time.Second
	DefaultInstallTimeout = 10 * time.Minute
)

// SpotDLPackage is the PyPI package providing the downloader
const SpotDLPackage = "spotdl"

// ErrToolNotFound is returned when an executable is not on the search path
var ErrToolNotFound = errors.New("executable not found")

// CommandError reports a failed prerequisite command together with its output
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, lastLine(out))
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandRunner runs a command to completion and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Toolchain checks and installs the downloader and its Python prerequisites
type Toolchain struct {
	tool           string
	python         string
	checkTimeout   time.Duration
	installTimeout time.Duration
	run            CommandRunner
}

// DefaultPython returns the interpreter name used to run pip
func DefaultPython() string {
	if runtime.GOOS == OSWindows {
		return "python"
	}
	return "python3"
}

// NewToolchain creates a toolchain for tool, installed through python
func NewToolchain(tool, python string) *Toolchain {
	if python == "" {
		python = DefaultPython()
	}
	return &Toolchain{
		tool:           tool,
		python:         python,
		checkTimeout:   DefaultCheckTimeout,
		installTimeout: DefaultInstallTimeout,
		run:            execCommand,
	}
}

// SetTimeouts sets the timeouts of version checks and installs
func (t *Toolchain) SetTimeouts(check, install time.Duration) {
	t.checkTimeout = check
	t.installTimeout = install
}

// Check runs "<tool> --version" and returns the reported version
func (t *Toolchain) Check(ctx context.Context) (string, error) {
	out, err := t.exec(ctx, t.checkTimeout, t.tool, "--version")
	if err != nil {
		return "", err
	}
	return lastLine(string(out)), nil
}

// EnsurePip makes sure pip is available, bootstrapping it with ensurepip
func (t *Toolchain) EnsurePip(ctx context.Context) error {
	if _, err := t.exec(ctx, t.checkTimeout, t.python, "-m", "pip", "--version"); err == nil {
		return nil
	} else if errors.Is(err, ErrToolNotFound) {
		return err
	}

	slog.InfoContext(ctx, "pip is missing, bootstrapping", slog.String("python", t.python))
	if _, err := t.exec(ctx, t.installTimeout, t.python, "-m", "ensurepip", "--upgrade"); err != nil {
		return fmt.Errorf("bootstrap pip: %w", err)
	}
	return nil
}

// EnsureTool returns the tool version, installing the tool with pip first
// when the check fails. installed reports whether an install happened.
func (t *Toolchain) EnsureTool(ctx context.Context) (version string, installed bool, err error) {
	if version, err = t.Check(ctx); err == nil {
		return version, false, nil
	}
	slog.InfoContext(ctx, "downloader not available, installing",
		slog.String("tool", t.tool),
		slog.String("reason", err.Error()),
	)

	if err := t.EnsurePip(ctx); err != nil {
		return "", false, err
	}
	if _, err := t.exec(ctx, t.installTimeout, t.python, "-m", "pip", "install", "--upgrade", SpotDLPackage); err != nil {
		return "", false, fmt.Errorf("install %s: %w", SpotDLPackage, err)
	}

	version, err = t.Check(ctx)
	if err != nil {
		return "", true, fmt.Errorf("%s installed but still not runnable: %w", t.tool, err)
	}
	return version, true, nil
}

func (t *Toolchain) exec(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := shellescape.QuoteCommand(append([]string{name}, args...))
	slog.DebugContext(ctx, "running prerequisite command", slog.String("command", command))

	out, err := t.run(ctx, name, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return out, &CommandError{Command: command, Output: string(out), Err: err}
	}
	return out, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
