package ostree

import (
	"context"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
)

/*
	Returns an ExtractFunc which drives the given ostree executable.
*/
func NewExtractor(bin string) api.ExtractFunc {
	return func(ctx context.Context, run api.CommandRunner, ws api.Workspace, mon api.Monitor) (api.Result, error) {
		return extract(ctx, bin, run, ws, mon)
	}
}

func extract(
	ctx context.Context,
	bin string,
	run api.CommandRunner,
	ws api.Workspace,
	mon api.Monitor,
) (_ api.Result, err error) {
	defer RequireErrorHasCategory(&err, api.ErrorCategory(""))

	res := api.Result{
		Bundle:     ws.Bundle,
		BundleType: api.BundleType_OSTree,
		OutDir:     ws.OutDir,
	}
	if ws.ScratchDir == "" {
		return res, Errorf(api.ErrUsage, "ostree extraction requires a scratch directory")
	}
	if _, err := run.LookPath(bin); err != nil {
		return res, err
	}
	repo := fs.MustAbsolutePath(ws.ScratchDir)
	log.ScratchRepo(mon, repo.String())

	// Delta application needs a repo to land in.
	if err := run.Run(ctx, bin, "init", "--repo="+repo.String(), "--mode=bare-user"); err != nil {
		return res, err
	}
	if err := run.Run(ctx, bin, "static-delta", "apply-offline", "--repo="+repo.String(), ws.Bundle); err != nil {
		return res, err
	}

	// The delta doesn't tell us what it contained; the object store does.
	hash, err := FindCommit(repo, mon)
	if err != nil {
		return res, err
	}
	log.CommitFound(mon, hash)
	res.CommitHash = hash

	// Check out in user mode: ownership is ignored and permissions are relaxed.
	if err := run.Run(ctx, bin, "checkout", "--repo="+repo.String(), "-U", hash, ws.OutDir); err != nil {
		return res, err
	}
	return res, nil
}
