package platform

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "a", "b")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDirs(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}

	musicDir, err := GetHomeMusicDir()
	if err != nil {
		t.Fatalf("Failed to get music directory: %v", err)
	}
	if filepath.Base(musicDir) != MusicDirName {
		t.Errorf("Expected directory to end with %q, got: %s", MusicDirName, musicDir)
	}
}

func stubCommands(t *testing.T, available map[string]bool) *[][]string {
	t.Helper()
	var calls [][]string
	origRun, origLook := runCommand, lookPath
	runCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	lookPath = func(file string) (string, error) {
		if available[file] {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { runCommand, lookPath = origRun, origLook })
	return &calls
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	calls := stubCommands(t, map[string]bool{XDGOpenCommand: true})

	if err := OpenDirectory(dir); err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("Expected one command, got %v", *calls)
	}
	got := (*calls)[0]
	if got[len(got)-1] != dir {
		t.Errorf("Expected %s to be opened, got %v", dir, got)
	}

	want := map[string]string{OSDarwin: OpenCommand, OSWindows: ExplorerCommand}[runtime.GOOS]
	if want == "" {
		want = XDGOpenCommand
	}
	if got[0] != want {
		t.Errorf("Expected %s, got %s", want, got[0])
	}
}

func TestOpenDirectoryLinuxFallback(t *testing.T) {
	calls := stubCommands(t, map[string]bool{"thunar": true})

	if err := openDirectoryLinux("/music"); err != nil {
		t.Fatalf("openDirectoryLinux failed: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0][0] != "thunar" {
		t.Errorf("Expected thunar to be used, got %v", *calls)
	}
}

func TestOpenDirectoryLinuxNothingAvailable(t *testing.T) {
	stubCommands(t, nil)

	if err := openDirectoryLinux("/music"); !errors.Is(err, ErrNoFileManager) {
		t.Errorf("Expected ErrNoFileManager, got %v", err)
	}
}

func TestOpenDirectoryErrors(t *testing.T) {
	calls := stubCommands(t, map[string]bool{XDGOpenCommand: true})

	if err := OpenDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "file.mp3")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := OpenDirectory(file); err == nil {
		t.Error("Expected error for a regular file")
	}
	if len(*calls) != 0 {
		t.Errorf("Nothing should be opened, got %v", *calls)
	}
}
