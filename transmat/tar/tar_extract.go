package tartrans

import (
	"context"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/detect"
	"github.com/thespy7/flatpak-extract/fs"
	"github.com/thespy7/flatpak-extract/fs/osfs"
	"github.com/thespy7/flatpak-extract/fsOp"
	"github.com/thespy7/flatpak-extract/lib/cmdrun"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
)

/*
	Returns an ExtractFunc which uses the first available tool in prefs.
*/
func NewExtractor(prefs []string) api.ExtractFunc {
	return func(ctx context.Context, run api.CommandRunner, ws api.Workspace, mon api.Monitor) (api.Result, error) {
		return extract(ctx, prefs, run, ws, mon)
	}
}

/*
	Picks the first tool in prefs which resolves.
*/
func ChooseTool(run api.CommandRunner, prefs []string) (string, error) {
	for _, tool := range prefs {
		if cmdrun.Available(run, tool) {
			return tool, nil
		}
	}
	return "", Errorf(api.ErrMissingDependency, "no tar tool found (tried %q)", prefs)
}

func extract(
	ctx context.Context,
	prefs []string,
	run api.CommandRunner,
	ws api.Workspace,
	mon api.Monitor,
) (_ api.Result, err error) {
	defer RequireErrorHasCategory(&err, api.ErrorCategory(""))

	res := api.Result{
		Bundle:     ws.Bundle,
		BundleType: api.BundleType_Tar,
		OutDir:     ws.OutDir,
	}
	tool, err := ChooseTool(run, prefs)
	if err != nil {
		return res, err
	}
	log.ToolChosen(mon, tool)
	res.Tool = tool

	// Make the output dir (and parents).  The tools won't.
	root := fs.AbsolutePath{}
	outDir, _ := fs.MustAbsolutePath(ws.OutDir).RelativeTo(root)
	if err := fsOp.MkdirAll(osfs.New(root), outDir, 0755); err != nil {
		return res, Errorf(api.ErrInoperablePath, "cannot create output directory: %s", err)
	}

	compression, first, err := detect.ProbeTar(ws.Bundle)
	if err != nil {
		log.ProbeFailed(mon, compression, err)
	} else {
		log.ProbeOK(mon, compression, first)
	}
	res.Compression = compression

	if err := run.Run(ctx, tool, "-xf", ws.Bundle, "-C", ws.OutDir); err != nil {
		return res, err
	}
	return res, nil
}
