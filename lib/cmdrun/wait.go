package cmdrun

import (
	"os/exec"
	"syscall"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
)

/*
	Waits for the command and decodes its exit status.

	A child killed by a signal is reported the way shells report it:
	as exit code 128 plus the signal number.
*/
func waitFor(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return -1, Errorf(api.ErrCommandFailed, "%s: unknown wait error: %s", cmd.Path, err)
	}
	waitStatus, ok := exitErr.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return -1, Errorf(api.ErrCommandFailed, "%s: unknown process state implementation %T", cmd.Path, exitErr.ProcessState.Sys())
	}
	if waitStatus.Exited() {
		return waitStatus.ExitStatus(), nil
	} else if waitStatus.Signaled() {
		return int(waitStatus.Signal()) + 128, nil
	} else {
		return -1, Errorf(api.ErrCommandFailed, "%s: unknown process wait status (%#v)", cmd.Path, waitStatus)
	}
}
