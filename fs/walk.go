package fs

import (
	"sort"

	"github.com/thespy7/flatpak-extract/lib/treewalk"
)

type WalkFunc func(filenode *FilewalkNode) error

/*
	Walks a filesystem.

	This is much like the standard library's `path/filepath.Walk`,
	except it's based on `treewalk`, which means it supports both pre- and post-order traversals;
	and, it uses fs.RelPath (of course) to normalize path names.

	If walking directories, implicitly the first path will always be `.`.
	Siblings are visited in name-sorted order.  Symlinks are not followed.

	Errors stat'ing a node or listing a directory do *not* halt the walk:
	they are recorded in `node.Err` for the visit funcs to look at,
	and a directory that couldn't be listed is simply treated as having
	no children.  (`node.Info.Name` is always set, even when `node.Err` is.)
	Only errors returned by the visit funcs halt the walk.
*/
func Walk(afs FS, preVisit WalkFunc, postVisit WalkFunc) error {
	return treewalk.Walk(
		newFileWalkNode(afs, RelPath{}),
		func(node treewalk.Node) error {
			filenode := node.(*FilewalkNode)
			filenode.prepareChildren(afs)
			if preVisit != nil {
				return preVisit(filenode)
			}
			return nil
		},
		func(node treewalk.Node) error {
			filenode := node.(*FilewalkNode)
			var err error
			if postVisit != nil {
				err = postVisit(filenode)
			}
			filenode.forgetChildren()
			return err
		},
	)
}

var _ treewalk.Node = &FilewalkNode{}

type FilewalkNode struct {
	Info *Metadata
	Err  error

	children []*FilewalkNode // sorted by name
	itrIndex int             // next child offset
}

func (t *FilewalkNode) NextChild() treewalk.Node {
	if t.itrIndex >= len(t.children) {
		return nil
	}
	t.itrIndex++
	return t.children[t.itrIndex-1]
}

func newFileWalkNode(afs FS, path RelPath) (filenode *FilewalkNode) {
	filenode = &FilewalkNode{}
	filenode.Info, filenode.Err = afs.LStat(path)
	if filenode.Info == nil {
		filenode.Info = &Metadata{Name: path, Type: Type_Invalid}
	}
	// We don't expand the children until the previsit function,
	//  because we don't want them all crashing into memory at once.
	return
}

/*
	Expand next subtree.  Done right before the pre-order visit step so we
	don't read every dir up front.
*/
func (t *FilewalkNode) prepareChildren(afs FS) {
	if t.Err != nil || t.Info.Type != Type_Dir {
		return
	}
	names, err := afs.ReadDirNames(t.Info.Name)
	if err != nil {
		t.Err = err
		return
	}
	sort.Strings(names)
	t.children = make([]*FilewalkNode, len(names))
	for i, name := range names {
		t.children[i] = newFileWalkNode(afs, t.Info.Name.Join(MustRelPath(name)))
	}
}

/*
	Used in the post-order visit step so we don't continuously consume more
	memory as we walk.
*/
func (t *FilewalkNode) forgetChildren() {
	t.children = nil
}
