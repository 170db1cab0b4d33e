package fs

import (
	"os"
	"syscall"

	"github.com/warpfork/go-errcat"
)

type ErrorCategory string

const (
	ErrNotExists     ErrorCategory = "fs-not-exists"     // Path does not exist.
	ErrAlreadyExists ErrorCategory = "fs-already-exists" // Path already exists (and we were asked to create it).
	ErrNotDir        ErrorCategory = "fs-not-dir"        // Some segment of the path is not a directory.
	ErrPermission    ErrorCategory = "fs-permission"     // Permission denied.
	ErrBreakout      ErrorCategory = "fs-breakout"       // A path left the base path of the filesystem.
	ErrIOUnknown     ErrorCategory = "fs-unknown-io"     // Catchall.
)

/*
	Normalize an error from the os package into a categorized error.

	Nil stays nil.  Errors that already carry a category pass through untouched.
*/
func NormalizeIOError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(errcat.Error); ok {
		return err
	}
	switch {
	case os.IsNotExist(err):
		return errcat.Errorf(ErrNotExists, "%s", err)
	case os.IsExist(err):
		return errcat.Errorf(ErrAlreadyExists, "%s", err)
	case os.IsPermission(err):
		return errcat.Errorf(ErrPermission, "%s", err)
	}
	if pe, ok := err.(*os.PathError); ok && pe.Err == syscall.ENOTDIR {
		return errcat.Errorf(ErrNotDir, "%s", err)
	}
	return errcat.Errorf(ErrIOUnknown, "%s", err)
}
