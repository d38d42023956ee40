package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// Music is stored under the user's home in this folder by default
const MusicDirName = "Music"

// ErrNoFileManager is returned when no way to open a folder was found
var ErrNoFileManager = errors.New("no suitable file manager found")

// runCommand starts a command without waiting for the spawned window
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// OpenDirectory opens dir in the system file manager
func OpenDirectory(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absPath)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return runCommand(OpenCommand, absPath)
	case OSWindows:
		return runCommand(ExplorerCommand, absPath)
	default:
		return openDirectoryLinux(absPath)
	}
}

// openDirectoryLinux tries xdg-open first, then common file managers
func openDirectoryLinux(dir string) error {
	if _, err := lookPath(XDGOpenCommand); err == nil {
		return runCommand(XDGOpenCommand, dir)
	}
	for _, fm := range LinuxFileManagers {
		if _, err := lookPath(fm); err == nil {
			return runCommand(fm, dir)
		}
	}
	return ErrNoFileManager
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// GetHomeMusicDir returns ~/Music, the default output directory
func GetHomeMusicDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, MusicDirName), nil
}
