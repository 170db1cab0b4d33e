package api

import (
	"github.com/warpfork/go-errcat"
)

type ErrorCategory string
type ExitCode int

// The command line contract is simple: zero for success, one for anything else.
// Callers who need to distinguish failures should use the error category,
// which is also emitted in json output mode.
const (
	ExitSuccess = ExitCode(0)
	ExitFailure = ExitCode(1)
	ExitPanic   = ExitCode(2) // Placeholder.  We don't use this.  '2' happens when golang exits due to panic.
)

const (
	ErrUsage             = ErrorCategory("flatpak-extract-usage-error")        // Some piece of user input to a command was invalid and unrunnable.
	ErrBundleNotFound    = ErrorCategory("flatpak-extract-bundle-not-found")   // The bundle path doesn't exist or isn't a regular file.
	ErrPathExists        = ErrorCategory("flatpak-extract-path-exists")        // An output or scratch path already exists; we never overwrite.
	ErrMissingDependency = ErrorCategory("flatpak-extract-missing-dependency") // An external tool could not be resolved.
	ErrCommandFailed     = ErrorCategory("flatpak-extract-command-failed")     // An external tool ran and exited non-zero.
	ErrRepoCorrupt       = ErrorCategory("flatpak-extract-repo-corrupt")       // The scratch repository doesn't look like delta application worked (e.g. no commit object).
	ErrInoperablePath    = ErrorCategory("flatpak-extract-inoperable-path")    // A local path could not be created, read, or inspected.
	ErrCleanupFailed     = ErrorCategory("flatpak-extract-cleanup-failed")     // Extraction worked, but the scratch repository could not be removed.
	ErrCancelled         = ErrorCategory("flatpak-extract-cancelled")          // The operation was interrupted.
)

func ExitCodeForError(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

/*
	Converts any error into its serializable form.
	Errors without a category from this package are reported as usage errors
	if they came from argument parsing, which is the only place raw errors
	are expected to surface; so the fallback category is ErrUsage.
*/
func ToError(err error) *Error {
	if err == nil {
		return nil
	}
	e := &Error{Category: ErrUsage, Msg: err.Error()}
	if e2, ok := err.(errcat.Error); ok {
		if cat, ok := e2.Category().(ErrorCategory); ok {
			e.Category = cat
		}
		e.Details = e2.Details()
	}
	return e
}
