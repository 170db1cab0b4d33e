/*
	Printing extracted trees.
*/
package lister

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
	"github.com/thespy7/flatpak-extract/fs/osfs"
)

/*
	Writes every path under start (start included), one per line,
	depth-first with siblings in name order.  Symlinks are listed, not followed.

	If start sits directly in the working directory, paths are written
	relative to it (as "./out/..."); otherwise they're absolute.

	Entries that can't be read are reported inline as "error: ..." lines,
	and the listing carries on.  Only a missing start, or failure to write,
	stops it.
*/
func List(w io.Writer, start string) error {
	abs, err := filepath.Abs(start)
	if err != nil {
		return Errorf(api.ErrInoperablePath, "cannot resolve %q: %s", start, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return Errorf(api.ErrInoperablePath, "cannot list %q: %s", start, err)
	}
	root := fs.MustAbsolutePath(abs)

	render := func(p fs.AbsolutePath) string { return p.String() }
	if cwd, err := os.Getwd(); err == nil {
		if cwd, err = filepath.EvalSymlinks(cwd); err == nil && root.Dir() == fs.MustAbsolutePath(cwd) {
			base := fs.MustAbsolutePath(cwd)
			render = func(p fs.AbsolutePath) string {
				rel, _ := p.RelativeTo(base)
				return rel.String()
			}
		}
	}

	err = fs.Walk(osfs.New(root), func(node *fs.FilewalkNode) error {
		display := render(root.Join(node.Info.Name))
		if node.Info.Type != fs.Type_Invalid {
			if _, err := fmt.Fprintln(w, display); err != nil {
				return err
			}
		}
		if node.Err != nil {
			if _, err := fmt.Fprintf(w, "error: %s: %s\n", display, node.Err); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return Errorf(api.ErrInoperablePath, "listing %s interrupted: %s", root, err)
	}
	return nil
}
