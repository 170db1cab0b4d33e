package testutil

import (
	"context"
	"strings"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
)

var _ api.CommandRunner = &FakeRunner{}

/*
	A CommandRunner which forks nothing: it records every call,
	and hands it to an optional Handler to decide the outcome
	(and to fake up any side effects on the filesystem).

	Every executable resolves, except those named in Missing.
*/
type FakeRunner struct {
	Missing map[string]bool
	Handler func(argv []string) error
	Calls   [][]string
}

func (r *FakeRunner) LookPath(name string) (string, error) {
	if r.Missing[name] {
		return "", Errorf(api.ErrMissingDependency, "executable %q not found on the PATH", name)
	}
	if strings.Contains(name, "/") {
		return name, nil
	}
	return "/fake/bin/" + name, nil
}

func (r *FakeRunner) Run(ctx context.Context, argv ...string) error {
	if _, err := r.LookPath(argv[0]); err != nil {
		return err
	}
	r.Calls = append(r.Calls, argv)
	if r.Handler == nil {
		return nil
	}
	return r.Handler(argv)
}

// The subcommands invoked so far (argv[1] of each call).
func (r *FakeRunner) Subcommands() []string {
	var subs []string
	for _, argv := range r.Calls {
		if len(argv) > 1 {
			subs = append(subs, argv[1])
		}
	}
	return subs
}
