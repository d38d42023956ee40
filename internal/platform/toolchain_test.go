package platform

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

type fakeCommand struct {
	out string
	err error
}

type fakeShell struct {
	results map[string][]fakeCommand
	calls   []string
}

func (f *fakeShell) run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	queue := f.results[key]
	if len(queue) == 0 {
		return nil, exec.ErrNotFound
	}
	res := queue[0]
	if len(queue) > 1 {
		f.results[key] = queue[1:]
	}
	return []byte(res.out), res.err
}

func newFakeToolchain(results map[string][]fakeCommand) (*Toolchain, *fakeShell) {
	sh := &fakeShell{results: results}
	tc := NewToolchain("spotdl", "python3")
	tc.run = sh.run
	return tc, sh
}

var errExit = errors.New("exit status 1")

func TestToolchainCheck(t *testing.T) {
	tc, _ := newFakeToolchain(map[string][]fakeCommand{
		"spotdl --version": {{out: "Some warning\n4.2.11\n"}},
	})

	version, err := tc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if version != "4.2.11" {
		t.Errorf("Expected version 4.2.11, got %q", version)
	}
}

func TestToolchainCheckMissing(t *testing.T) {
	tc, _ := newFakeToolchain(nil)

	_, err := tc.Check(context.Background())
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Expected ErrToolNotFound, got %v", err)
	}
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Command != "spotdl --version" {
		t.Errorf("Expected CommandError for spotdl --version, got %v", err)
	}
}

func TestToolchainEnsureToolAlreadyInstalled(t *testing.T) {
	tc, sh := newFakeToolchain(map[string][]fakeCommand{
		"spotdl --version": {{out: "4.2.11"}},
	})

	version, installed, err := tc.EnsureTool(context.Background())
	if err != nil || installed || version != "4.2.11" {
		t.Fatalf("Unexpected result: %q %v %v", version, installed, err)
	}
	if len(sh.calls) != 1 {
		t.Errorf("Expected a single check, got %v", sh.calls)
	}
}

func TestToolchainEnsureToolInstalls(t *testing.T) {
	tc, sh := newFakeToolchain(map[string][]fakeCommand{
		"spotdl --version":                        {{err: exec.ErrNotFound}, {out: "4.2.11"}},
		"python3 -m pip --version":                {{out: "No module named pip", err: errExit}},
		"python3 -m ensurepip --upgrade":          {{out: "Successfully installed pip"}},
		"python3 -m pip install --upgrade spotdl": {{out: "Successfully installed spotdl"}},
	})

	version, installed, err := tc.EnsureTool(context.Background())
	if err != nil {
		t.Fatalf("EnsureTool failed: %v", err)
	}
	if !installed || version != "4.2.11" {
		t.Errorf("Unexpected result: %q installed=%v", version, installed)
	}

	want := []string{
		"spotdl --version",
		"python3 -m pip --version",
		"python3 -m ensurepip --upgrade",
		"python3 -m pip install --upgrade spotdl",
		"spotdl --version",
	}
	if strings.Join(sh.calls, "|") != strings.Join(want, "|") {
		t.Errorf("Unexpected commands:\n got %v\nwant %v", sh.calls, want)
	}
}

func TestToolchainEnsureToolInstallFails(t *testing.T) {
	tc, _ := newFakeToolchain(map[string][]fakeCommand{
		"spotdl --version":                        {{err: exec.ErrNotFound}},
		"python3 -m pip --version":                {{out: "pip 24.0"}},
		"python3 -m pip install --upgrade spotdl": {{out: "ERROR: network unreachable\n", err: errExit}},
	})

	_, installed, err := tc.EnsureTool(context.Background())
	if err == nil || installed {
		t.Fatalf("Expected install failure, got installed=%v err=%v", installed, err)
	}
	if !strings.Contains(err.Error(), "network unreachable") {
		t.Errorf("Error should carry the command output, got %v", err)
	}
}

func TestToolchainEnsurePipWithoutPython(t *testing.T) {
	tc, sh := newFakeToolchain(nil)

	if err := tc.EnsurePip(context.Background()); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Expected ErrToolNotFound, got %v", err)
	}
	if len(sh.calls) != 1 {
		t.Errorf("ensurepip must not run without python, got %v", sh.calls)
	}
}

func TestDefaultPython(t *testing.T) {
	if NewToolchain("spotdl", "").python != DefaultPython() {
		t.Error("Expected the default interpreter")
	}
}
