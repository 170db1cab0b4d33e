package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/extract"
	"github.com/thespy7/flatpak-extract/lib/cmdrun"
	"github.com/thespy7/flatpak-extract/lister"
)

// Set at link time.
var version = "dev"

/*
	Output serialization formats
*/
const (
	FmtJson = "json"
	FmtDumb = "dumb"
)

type baseCLI struct {
	Bundle string // Bundle file to extract
	OutDir string // Output directory; must not exist
	TmpDir string // Scratch repository for ostree bundles; must not exist
	Type   string // Bundle type enum, or auto
	List   bool   // Print the extracted tree
	Format string // Output api format, eg. json
}

/*
	Blocks until a sigint is received, then calls cancel.
	Returns without cancelling if the context ends first.
*/
func CancelOnInterrupt(ctx context.Context, cancel context.CancelFunc) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	defer signal.Stop(signalChan)
	select {
	case <-signalChan:
		cancel()
	case <-ctx.Done():
	}
}

func main() {
	ctx := context.Background()
	exitCode := Main(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(int(exitCode))
}

func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) api.ExitCode {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go CancelOnInterrupt(ctx, cancel)

	cli := baseCLI{}

	app := kingpin.New("flatpak-extract", "Extract the contents of a Flatpak bundle into a plain directory.")
	app.HelpFlag.Short('h')
	app.Version(version)

	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	app.Arg("bundle", "Bundle file to extract").
		Required().
		StringVar(&cli.Bundle)
	app.Flag("outdir", "Output directory (default: '<bundle stem>-extract' in the working directory); must not exist").
		StringVar(&cli.OutDir)
	app.Flag("tmpdir", "Scratch repository for ostree bundles (default: generated); must not exist, and is removed afterwards").
		StringVar(&cli.TmpDir)
	app.Flag("type", "Bundle type [auto, ostree, tar]").
		Default(string(api.BundleType_Auto)).
		StringVar(&cli.Type)
	app.Flag("list", "Print the extracted tree when done (dumb format only)").
		Default("true").
		BoolVar(&cli.List)
	app.Flag("format", "Output api format").
		Default(FmtDumb).
		EnumVar(&cli.Format, FmtJson, FmtDumb)

	var terminated bool
	var termStatus int
	app.Terminate(func(status int) {
		terminated, termStatus = true, status
	})
	_, err := app.Parse(args[1:])
	if terminated {
		// Help or version was printed.
		if termStatus == 0 {
			return api.ExitSuccess
		}
		return api.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s %s\n", errorTag(), err)
		app.Usage(args[1:])
		return api.ExitFailure
	}

	p, err := demuxPrinter(cli.Format, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s %s\n", errorTag(), err)
		return api.ExitFailure
	}
	res, err := execute(ctx, cli, p)
	p.Result(res, err)
	if err != nil {
		return api.ExitCodeForError(err)
	}

	if cli.List && cli.Format == FmtDumb {
		if err := lister.List(stdout, res.OutDir); err != nil {
			fmt.Fprintf(stderr, "%s %s\n", errorTag(), err)
			return api.ExitFailure
		}
	}
	return api.ExitSuccess
}

/*
	Runs the extraction, pumping its events to the printer,
	and returns once both are done (so nothing interleaves with what follows).
*/
func execute(ctx context.Context, cli baseCLI, p printer) (api.Result, error) {
	typ, err := api.ParseBundleType(cli.Type)
	if err != nil {
		return api.Result{}, err
	}
	ch := make(chan api.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range ch {
			p.Event(evt)
		}
	}()
	mon := api.Monitor{Chan: ch}
	res, err := extract.Extract(ctx, cmdrun.Exec{Mon: mon}, extract.Request{
		Bundle:     cli.Bundle,
		OutDir:     cli.OutDir,
		ScratchDir: cli.TmpDir,
		Type:       typ,
	}, mon)
	<-done
	return res, err
}
