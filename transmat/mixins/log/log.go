/*
	Helper functions for emitting structured logs to the api.Monitor.

	These functions encompass the common lifecycle events of an extraction,
	and using them A) saves typing and B) keeps the common stuff formatted
	in a common way between the ostree and tar handlers.
	Handlers can of course also write their own log events raw; it is freetext.

	All functions are no-ops when the monitor has no channel.
*/
package log

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thespy7/flatpak-extract/api"
)

func send(mon api.Monitor, lvl api.LogLevel, msg string, detail ...[2]string) {
	if mon.Chan == nil {
		return
	}
	mon.Chan <- api.Event{
		Log: &api.Event_Log{
			Time:   time.Now(),
			Level:  lvl,
			Msg:    msg,
			Detail: detail,
		},
	}
}

func Info(mon api.Monitor, format string, args ...interface{}) {
	send(mon, api.LogInfo, fmt.Sprintf(format, args...))
}

func Warn(mon api.Monitor, format string, args ...interface{}) {
	send(mon, api.LogWarn, fmt.Sprintf(format, args...))
}

// Emitted just before an external tool is forked.
func CommandStarted(mon api.Monitor, argv []string) {
	send(mon, api.LogInfo, "running: "+strings.Join(argv, " "))
}

/*
	Emitted after an external tool exits.
	Captured output is attached as details; empty streams are omitted.
	A non-zero exit code is reported at error level.
*/
func CommandFinished(mon api.Monitor, argv []string, exitCode int, stdout, stderr string) {
	lvl := api.LogInfo
	msg := fmt.Sprintf("%s exited %d", argv[0], exitCode)
	if exitCode != 0 {
		lvl = api.LogError
		msg = fmt.Sprintf("%s failed with exit code %d", argv[0], exitCode)
	}
	detail := [][2]string{{"exit_code", strconv.Itoa(exitCode)}}
	if s := strings.TrimRight(stdout, "\n"); s != "" {
		detail = append(detail, [2]string{"stdout", s})
	}
	if s := strings.TrimRight(stderr, "\n"); s != "" {
		detail = append(detail, [2]string{"stderr", s})
	}
	send(mon, lvl, msg, detail...)
}

func BundleDetected(mon api.Monitor, bundle string, typ api.BundleType, forced bool) {
	how := "detected"
	if forced {
		how = "requested"
	}
	send(mon, api.LogInfo, fmt.Sprintf("bundle type %s (%s)", typ, how),
		[2]string{"bundle", bundle},
		[2]string{"type", string(typ)},
	)
}

// Typically the header couldn't be read; the caller falls back to tar.
func DetectionFailed(mon api.Monitor, bundle string, err error) {
	send(mon, api.LogWarn, fmt.Sprintf("could not read bundle header, assuming tar: %s", err),
		[2]string{"bundle", bundle},
		[2]string{"error", err.Error()},
	)
}

func ProbeOK(mon api.Monitor, compression api.Compression, firstEntry string) {
	send(mon, api.LogInfo, fmt.Sprintf("archive is tar (%s compression), first entry %q", compression, firstEntry))
}

// Advisory only: the external tool may still understand the archive.
func ProbeFailed(mon api.Monitor, compression api.Compression, err error) {
	send(mon, api.LogWarn, fmt.Sprintf("archive does not look like a tar stream (%s compression); trying anyway: %s", compression, err),
		[2]string{"compression", string(compression)},
		[2]string{"error", err.Error()},
	)
}

func ToolChosen(mon api.Monitor, tool string) {
	send(mon, api.LogInfo, "using "+tool)
}

func ScratchRepo(mon api.Monitor, path string) {
	send(mon, api.LogInfo, "scratch repository at "+path)
}

func CommitFound(mon api.Monitor, hash string) {
	send(mon, api.LogInfo, "found commit "+hash)
}

// Several commit objects: we use the newest, but this is not what a bundle should contain.
func MultipleCommits(mon api.Monitor, chosen string, all []string) {
	send(mon, api.LogWarn, fmt.Sprintf("found %d commit objects, using the most recent (%s)", len(all), chosen),
		[2]string{"chosen", chosen},
		[2]string{"candidates", strings.Join(all, " ")},
	)
}

func ScratchCleanupFailed(mon api.Monitor, path string, err error) {
	send(mon, api.LogWarn, fmt.Sprintf("could not remove scratch repository %s: %s", path, err),
		[2]string{"path", path},
		[2]string{"error", err.Error()},
	)
}
