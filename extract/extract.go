/*
	The top of the extraction pipeline.

	Extract checks the preconditions (the bundle exists; the output dir
	doesn't), works out which kind of bundle it has, and hands off to the
	matching transmat.  For OSTree bundles it also owns the scratch
	repository: picks its path, refuses to reuse an existing one,
	and removes it again no matter how extraction went.
*/
package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/config"
	"github.com/thespy7/flatpak-extract/detect"
	"github.com/thespy7/flatpak-extract/fs"
	"github.com/thespy7/flatpak-extract/fs/osfs"
	"github.com/thespy7/flatpak-extract/fsOp"
	"github.com/thespy7/flatpak-extract/lib/guid"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
	"github.com/thespy7/flatpak-extract/transmat/ostree"
	"github.com/thespy7/flatpak-extract/transmat/tar"
)

type Request struct {
	Bundle     string         // Path to the bundle file.  Relative paths are resolved against the cwd.
	OutDir     string         // Optionally: where to extract to.  Default is DefaultOutDir(Bundle).  Must not exist.
	ScratchDir string         // Optionally: scratch repository path for ostree bundles.  Default is generated.  Must not exist.
	Type       api.BundleType // Optionally: force a handler.  Default is to detect.

	OstreeBin string   // Optionally: override config.GetOstreeBin.
	TarTools  []string // Optionally: override config.GetTarPreference.
}

/*
	Returns the default output dir for a bundle:
	`<stem>-extract` in the current working directory.
*/
func DefaultOutDir(bundle string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", Errorf(api.ErrInoperablePath, "cannot determine working directory: %s", err)
	}
	base := filepath.Base(bundle)
	stem := strings.TrimSuffix(base, detect.Ext(base))
	return filepath.Join(cwd, stem+"-extract"), nil
}

func Extract(
	ctx context.Context, // Long-running call.  Cancellable.
	run api.CommandRunner, // Used to fork ostree or tar.
	req Request, // What to extract, and where.
	mon api.Monitor, // Optionally: channel for progress and diagnostics.  Closed on return.
) (_ api.Result, err error) {
	if mon.Chan != nil {
		defer close(mon.Chan)
	}
	defer RequireErrorHasCategory(&err, api.ErrorCategory(""))

	// Sanitize arguments.
	if req.Bundle == "" {
		return api.Result{}, Errorf(api.ErrUsage, "no bundle given")
	}
	bundle, err := absolute(req.Bundle)
	if err != nil {
		return api.Result{}, err
	}
	res := api.Result{Bundle: bundle.String()}
	if err := checkBundle(bundle); err != nil {
		return res, err
	}
	if req.OutDir == "" {
		req.OutDir, err = DefaultOutDir(req.Bundle)
		if err != nil {
			return res, err
		}
	}
	outDir, err := absolute(req.OutDir)
	if err != nil {
		return res, err
	}
	res.OutDir = outDir.String()
	if err := checkAbsent(outDir, "output directory"); err != nil {
		return res, err
	}

	// Decide which handler.
	switch req.Type {
	case "", api.BundleType_Auto:
		req.Type = detect.DetectBundleType(bundle.String(), mon)
		log.BundleDetected(mon, bundle.String(), req.Type, false)
	case api.BundleType_OSTree, api.BundleType_Tar:
		log.BundleDetected(mon, bundle.String(), req.Type, true)
	default:
		return res, Errorf(api.ErrUsage, "unknown bundle type %q", req.Type)
	}
	res.BundleType = req.Type

	ws := api.Workspace{
		Bundle: bundle.String(),
		OutDir: outDir.String(),
	}
	switch req.Type {
	case api.BundleType_OSTree:
		return extractOSTree(ctx, run, ws, req, mon)
	default:
		tools := req.TarTools
		if len(tools) == 0 {
			tools = config.GetTarPreference()
		}
		return tartrans.NewExtractor(tools)(ctx, run, ws, mon)
	}
}

func extractOSTree(
	ctx context.Context,
	run api.CommandRunner,
	ws api.Workspace,
	req Request,
	mon api.Monitor,
) (res api.Result, err error) {
	res = api.Result{Bundle: ws.Bundle, BundleType: api.BundleType_OSTree, OutDir: ws.OutDir}
	bin := req.OstreeBin
	if bin == "" {
		bin = config.GetOstreeBin()
	}
	if _, err := run.LookPath(bin); err != nil {
		return res, err
	}

	// Pick the scratch repo path.  We never reuse one: it's removed afterwards.
	var scratch fs.AbsolutePath
	if req.ScratchDir != "" {
		scratch, err = absolute(req.ScratchDir)
		if err != nil {
			return res, err
		}
	} else {
		scratch = config.GetScratchBasePath().Join(fs.MustRelPath("flatpak-extract-" + guid.New()))
	}
	if err := checkAbsent(scratch, "scratch directory"); err != nil {
		return res, err
	}
	ws.ScratchDir = scratch.String()

	// From here on, the scratch repo is ours to clean up.
	defer func() {
		afs, name := fsOp.OpenParent(osfs.New, scratch)
		if rmErr := afs.RemoveAll(name); rmErr != nil {
			log.ScratchCleanupFailed(mon, scratch.String(), rmErr)
			if err == nil {
				err = ErrorDetailed(
					api.ErrCleanupFailed,
					"extraction succeeded, but the scratch repository could not be removed: "+rmErr.Error(),
					map[string]string{"path": scratch.String()},
				)
			}
		}
	}()
	return ostree.NewExtractor(bin)(ctx, run, ws, mon)
}

func absolute(pth string) (fs.AbsolutePath, error) {
	abs, err := filepath.Abs(pth)
	if err != nil {
		return fs.AbsolutePath{}, Errorf(api.ErrInoperablePath, "cannot resolve %q: %s", pth, err)
	}
	return fs.MustAbsolutePath(abs), nil
}

func checkBundle(bundle fs.AbsolutePath) error {
	afs, name := fsOp.OpenParent(osfs.New, bundle)
	stat, err := afs.Stat(name)
	switch Category(err) {
	case nil:
		if stat.Type != fs.Type_File {
			return Errorf(api.ErrBundleNotFound, "bundle %s is a %s, not a file", bundle, stat.Type)
		}
		return nil
	case fs.ErrNotExists, fs.ErrNotDir:
		return Errorf(api.ErrBundleNotFound, "bundle %s does not exist", bundle)
	default:
		return Errorf(api.ErrInoperablePath, "cannot inspect bundle %s: %s", bundle, err)
	}
}

func checkAbsent(pth fs.AbsolutePath, what string) error {
	afs, name := fsOp.OpenParent(osfs.New, pth)
	exists, err := fsOp.Exists(afs, name)
	switch {
	case err != nil && Category(err) == fs.ErrNotDir:
		return Errorf(api.ErrInoperablePath, "%s %s has parents which are not a directory", what, pth)
	case err != nil:
		return Errorf(api.ErrInoperablePath, "cannot inspect %s %s: %s", what, pth, err)
	case exists:
		return Errorf(api.ErrPathExists, "%s %s already exists; refusing to overwrite", what, pth)
	default:
		return nil
	}
}
