/*
	Interfaces of the extraction operations.

	The extraction handlers take everything they need as parameters:
	the paths to operate on, the runner used to fork external tools,
	and a monitor to report progress to.
	Config loading (environment variables and such) is the caller's job,
	so the handlers stay easy to drive from tests.
*/
package api

import (
	"context"
	"time"
)

/*
	CommandRunner forks external tools.

	Run returns nil iff the command ran and exited zero.
	LookPath resolves an executable name the way Run would.
*/
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, argv ...string) error
}

type ExtractFunc func(
	ctx context.Context, // Long-running call.  Cancellable.
	run CommandRunner, // Used to fork ostree or tar.
	ws Workspace, // Bundle, output directory, and (for ostree) scratch repo.
	mon Monitor, // Optionally: channel for progress and diagnostics.
) (Result, error)

/*
	Monitoring configuration structs, and message types used.
*/
type (
	/*
		Slot for the channel the caller wishes events to be sent to.

		The channel is closed by the top-level extraction call when it is done;
		individual handlers only send.
		A nil channel disables all reporting.
	*/
	Monitor struct {
		Chan chan<- Event
	}

	/*
		A "union" type of all the kinds of event that may be generated.

		The "Result" message is never sent to Monitor.Chan --
		its values are converted into the function returns --
		but *is* seen in the serial form in json output mode.
	*/
	Event struct {
		Log    *Event_Log    `refmt:"log,omitempty"`
		Result *Event_Result `refmt:"result,omitempty"`
	}

	Event_Log struct {
		Time   time.Time   `refmt:"t"`
		Level  LogLevel    `refmt:"lvl"`
		Msg    string      `refmt:"msg"`
		Detail [][2]string `refmt:"detail,omitempty"`
	}

	Event_Result struct {
		Result Result `refmt:"result"`
		Error  *Error `refmt:"error,omitempty"`
	}

	/*
		Serializable form of a categorized error.
	*/
	Error struct {
		Category ErrorCategory     `refmt:"category"`
		Msg      string            `refmt:"msg"`
		Details  map[string]string `refmt:"details,omitempty"`
	}
)

type LogLevel int8

const (
	LogError = LogLevel(4)
	LogWarn  = LogLevel(3)
	LogInfo  = LogLevel(2)
	LogDebug = LogLevel(1)
)

func (lvl LogLevel) String() string {
	switch lvl {
	case LogError:
		return "error"
	case LogWarn:
		return "warning"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	default:
		return "unknown"
	}
}
