package ostree

import (
	"strings"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
	"github.com/thespy7/flatpak-extract/fs/osfs"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
)

const commitSuffix = ".commit"

/*
	Finds the commit object in an OSTree repository and returns its hash.

	Objects are stored as `objects/<first two hex>/<remaining hex>.<kind>`,
	so the hash is the parent dir name glued to the file stem.

	A repo fresh from applying one bundle holds exactly one commit.
	If there are more, the most recently modified one wins
	(ties go to the first in sorted order), and a warning is logged.
	No commit at all is an ErrRepoCorrupt.
*/
func FindCommit(repo fs.AbsolutePath, mon api.Monitor) (string, error) {
	objects := repo.Join(fs.MustRelPath("objects"))
	afs := osfs.New(objects)

	var candidates []string
	var best string
	var bestMeta *fs.Metadata
	err := fs.Walk(afs, func(node *fs.FilewalkNode) error {
		if node.Err != nil {
			if node.Info.Name == (fs.RelPath{}) {
				return Errorf(api.ErrRepoCorrupt, "repository at %s has no objects dir: %s", repo, node.Err)
			}
			return Errorf(api.ErrInoperablePath, "error reading repository at %s: %s", repo, node.Err)
		}
		if node.Info.Name == (fs.RelPath{}) {
			if node.Info.Type != fs.Type_Dir {
				return Errorf(api.ErrRepoCorrupt, "repository at %s has no objects dir", repo)
			}
			return nil
		}
		if node.Info.Type != fs.Type_File || !strings.HasSuffix(node.Info.Name.Last(), commitSuffix) {
			return nil
		}
		hash := commitHash(node.Info.Name)
		candidates = append(candidates, hash)
		if bestMeta == nil || node.Info.Mtime.After(bestMeta.Mtime) {
			best, bestMeta = hash, node.Info
		}
		return nil
	}, nil)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		return "", Errorf(api.ErrRepoCorrupt, "no commit object found in repository at %s", repo)
	case 1:
		return best, nil
	default:
		log.MultipleCommits(mon, best, candidates)
		return best, nil
	}
}

func commitHash(objPath fs.RelPath) string {
	stem := strings.TrimSuffix(objPath.Last(), commitSuffix)
	dir := objPath.Dir()
	if dir == (fs.RelPath{}) {
		return stem
	}
	return dir.Last() + stem
}
