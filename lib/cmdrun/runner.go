/*
	Forking external tools.

	Exec is the api.CommandRunner used by the command;
	everything it sees on the child's stdout and stderr is captured
	and reported to the monitor once the child exits.
*/
package cmdrun

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	. "github.com/warpfork/go-errcat"
	"golang.org/x/sys/unix"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
)

var _ api.CommandRunner = Exec{}

// How long a child gets between SIGINT and SIGKILL when the context is cancelled.
var killGrace = 100 * time.Millisecond

type Exec struct {
	Mon api.Monitor
}

/*
	Resolves an executable name.

	Names containing a slash are used as paths and only checked for
	execute permission; bare names are searched for on the PATH.
*/
func (x Exec) LookPath(name string) (string, error) {
	if name == "" {
		return "", Errorf(api.ErrMissingDependency, "empty executable name")
	}
	if strings.Contains(name, "/") {
		fi, err := os.Stat(name)
		if err != nil {
			return "", Errorf(api.ErrMissingDependency, "executable %q not found: %s", name, err)
		}
		if fi.IsDir() {
			return "", Errorf(api.ErrMissingDependency, "executable %q is a directory", name)
		}
		if err := unix.Access(name, unix.X_OK); err != nil {
			return "", Errorf(api.ErrMissingDependency, "%q is not executable: %s", name, err)
		}
		return name, nil
	}
	pth, err := exec.LookPath(name)
	if err != nil {
		return "", Errorf(api.ErrMissingDependency, "executable %q not found on the PATH", name)
	}
	return pth, nil
}

/*
	Runs argv to completion.

	Returns nil iff the child exited zero.
	A non-zero exit yields ErrCommandFailed, with the exit code and the
	captured output in the error details.
	Cancelling the context interrupts the child (then kills it, if it
	doesn't go quietly) and yields ErrCancelled, with whatever output was
	captured up to then.
*/
func (x Exec) Run(ctx context.Context, argv ...string) error {
	if len(argv) == 0 {
		return Errorf(api.ErrUsage, "no command given")
	}
	if ctx.Err() != nil {
		return Errorf(api.ErrCancelled, "cancelled before running %s", argv[0])
	}
	pth, err := x.LookPath(argv[0])
	if err != nil {
		return err
	}

	log.CommandStarted(x.Mon, argv)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, pth, argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Interrupt first; Wait kills the child and closes our pipes
	// (even if a grandchild still holds them) once killGrace runs out.
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = killGrace
	if err := cmd.Start(); err != nil {
		switch {
		case ctx.Err() != nil:
			return Errorf(api.ErrCancelled, "cancelled before running %s", argv[0])
		case os.IsNotExist(err):
			return Errorf(api.ErrMissingDependency, "%s: failed to start: %s", argv[0], err)
		default:
			return Errorf(api.ErrCommandFailed, "%s: failed to start: %s", argv[0], err)
		}
	}

	code, err := waitFor(cmd)
	if ctx.Err() != nil {
		log.CommandFinished(x.Mon, argv, code, stdout.String(), stderr.String())
		return ErrorDetailed(
			api.ErrCancelled,
			argv[0]+" interrupted",
			map[string]string{
				"command": strings.Join(argv, " "),
				"stdout":  stdout.String(),
				"stderr":  stderr.String(),
			},
		)
	}
	if err != nil {
		return err
	}
	log.CommandFinished(x.Mon, argv, code, stdout.String(), stderr.String())
	if code != 0 {
		return ErrorDetailed(
			api.ErrCommandFailed,
			strings.Join(argv, " ")+" failed with exit code "+strconv.Itoa(code),
			map[string]string{
				"command":   strings.Join(argv, " "),
				"exit_code": strconv.Itoa(code),
				"stdout":    stdout.String(),
				"stderr":    stderr.String(),
			},
		)
	}
	return nil
}

/*
	Reports whether an executable resolves, for picking between alternatives.
*/
func Available(r api.CommandRunner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
