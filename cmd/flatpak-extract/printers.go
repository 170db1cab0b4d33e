package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/polydawn/refmt"
	"github.com/polydawn/refmt/json"

	"github.com/thespy7/flatpak-extract/api"
)

type printer interface {
	Event(evt api.Event)
	Result(res api.Result, err error)
}

var (
	errorTag   = func() string { return color.New(color.FgRed, color.Bold).Sprint("error:") }
	warningTag = func() string { return color.New(color.FgYellow, color.Bold).Sprint("warning:") }
)

/*
	Human output.  Progress goes to stdout;
	warnings and errors go to stderr, tagged.
	Captured tool output rides along with the event that reported it.
*/
type dumbPrinter struct {
	stdout io.Writer
	stderr io.Writer
}

func (p *dumbPrinter) Event(evt api.Event) {
	if evt.Log == nil {
		return
	}
	w, prefix := p.stdout, ""
	switch evt.Log.Level {
	case api.LogError:
		w, prefix = p.stderr, errorTag()+" "
	case api.LogWarn:
		w, prefix = p.stderr, warningTag()+" "
	}
	fmt.Fprintf(w, "%s%s\n", prefix, evt.Log.Msg)
	for _, kv := range evt.Log.Detail {
		switch kv[0] {
		case "stdout", "stderr":
			for _, line := range strings.Split(kv[1], "\n") {
				fmt.Fprintf(w, "  %s| %s\n", kv[0], line)
			}
		}
	}
}

func (p *dumbPrinter) Result(res api.Result, err error) {
	if err != nil {
		fmt.Fprintf(p.stderr, "%s %s\n", errorTag(), err)
		return
	}
	switch res.BundleType {
	case api.BundleType_OSTree:
		fmt.Fprintf(p.stdout, "extracted commit %s of %s to %s\n", res.CommitHash, res.Bundle, res.OutDir)
	default:
		fmt.Fprintf(p.stdout, "extracted %s to %s\n", res.Bundle, res.OutDir)
	}
}

/*
	Machine output: one json object per line, per event,
	and a final line holding the result.
*/
type jsonPrinter struct {
	stdout io.Writer
}

func (p *jsonPrinter) emit(evt api.Event) {
	marshaller := refmt.NewMarshallerAtlased(json.EncodeOptions{}, p.stdout, api.Atlas)
	if err := marshaller.Marshal(&evt); err != nil {
		panic(err)
	}
	fmt.Fprintln(p.stdout)
}

func (p *jsonPrinter) Event(evt api.Event) {
	p.emit(evt)
}

func (p *jsonPrinter) Result(res api.Result, err error) {
	p.emit(api.Event{Result: &api.Event_Result{
		Result: res,
		Error:  api.ToError(err),
	}})
}
