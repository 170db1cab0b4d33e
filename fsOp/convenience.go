package fsOp

import (
	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/fs"
)

/*
	Makes dirs recursively so the requested path exists.

	Existing dirs are not mutated.

	Symlinks will be traversed without comment.
*/
func MkdirAll(afs fs.FS, path fs.RelPath, perms fs.Perms) error {
	// Check if the path already exists.
	stat, err := afs.Stat(path)
	// Switch on status of the (derefenced) file.
	//  Recurse and mkdir if necessary.
	switch Category(err) {
	case nil:
		if stat.Type == fs.Type_Dir {
			return nil
		}
		return Errorf(fs.ErrNotDir, "%s already exists and is a %s not %s", afs.BasePath().Join(path), stat.Type, fs.Type_Dir)
	case fs.ErrNotExists:
		if path == (fs.RelPath{}) {
			return Errorf(fs.ErrNotExists, "base path %s does not exist!", afs.BasePath())
		}
		if err := MkdirAll(afs, path.Dir(), perms); err != nil {
			return err
		}
		if err := afs.Mkdir(path, perms); err != nil {
			switch Category(err) {
			case fs.ErrAlreadyExists:
				// this seemingly-contradictory message means the path does exist... it's just that stat said it didn't, beacuse it's a dangling symlink.
				return Errorf(fs.ErrNotDir, "%s already exists and is a %s not %s", afs.BasePath().Join(path), fs.Type_Symlink, fs.Type_Dir)
			default:
				return err
			}
		}
		return nil
	case fs.ErrNotDir:
		// Reformat the error a tad to not say "lstat", which is distracting.
		return Errorf(fs.ErrNotDir, "%s has parents which are not a directory", afs.BasePath().Join(path))
	default:
		return err
	}
}

/*
	Reports whether anything (including a dangling symlink) is at path.

	Errors other than "not exists" are returned, since they mean we
	can't tell -- and a caller refusing to overwrite things needs to know that.
*/
func Exists(afs fs.FS, path fs.RelPath) (bool, error) {
	_, err := afs.LStat(path)
	switch Category(err) {
	case nil:
		return true, nil
	case fs.ErrNotExists:
		return false, nil
	default:
		return false, err
	}
}

/*
	Opens a filesystem at the parent of the given path, returning it along
	with the path's final segment, so the path itself can be created,
	inspected, or removed.

	The root path has no parent; it is returned as the base with a zero RelPath.
*/
func OpenParent(open func(fs.AbsolutePath) fs.FS, path fs.AbsolutePath) (fs.FS, fs.RelPath) {
	if path == (fs.AbsolutePath{}) {
		return open(path), fs.RelPath{}
	}
	return open(path.Dir()), fs.MustRelPath(path.Last())
}
