//go:build !windows

package download

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// spotdl spawns ffmpeg and yt-dlp children, so the tool is started in its own
// process group and signals are sent to the whole group.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func interruptProcess(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

func killProcess(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig unix.Signal) error {
	pgid, err := unix.Getpgid(p.Pid)
	if err != nil {
		// already reaped or never got a group
		return p.Signal(sig)
	}
	if err := unix.Kill(-pgid, sig); err != nil && err != unix.ESRCH {
		return err
	}
	return nil
}
