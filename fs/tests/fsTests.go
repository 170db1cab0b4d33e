/*
	Behavioral checks any fs.FS implementation should pass.
	Call them from inside a Convey block with a fresh, empty filesystem.
*/
package tests

import (
	"sort"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/fs"
)

func CheckBaseLstat(afs fs.FS) {
	Convey("lstat of the base path should be a dir", func() {
		stat, err := afs.LStat(fs.RelPath{})
		So(err, ShouldBeNil)
		So(stat.Type, ShouldEqual, fs.Type_Dir)
		So(stat.Name, ShouldResemble, fs.RelPath{})
	})
}

func CheckMkdirLstatRoundtrip(afs fs.FS) {
	Convey("mkdir and lstat should roundtrip", func() {
		d1 := fs.MustRelPath("d1")
		So(afs.Mkdir(d1, 0755), ShouldBeNil)
		stat, err := afs.LStat(d1)
		So(err, ShouldBeNil)
		So(stat.Type, ShouldEqual, fs.Type_Dir)
	})
}

func CheckMkdirExisting(afs fs.FS) {
	Convey("mkdir of an existing dir should error", func() {
		d1 := fs.MustRelPath("d1")
		So(afs.Mkdir(d1, 0755), ShouldBeNil)
		So(afs.Mkdir(d1, 0755), errcat.ErrorShouldHaveCategory, fs.ErrAlreadyExists)
	})
}

func CheckDeepMkdirError(afs fs.FS) {
	Convey("deep mkdir should error", func() {
		d1d2 := fs.MustRelPath("d1/d2")
		So(afs.Mkdir(d1d2, 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
		_, err := afs.LStat(d1d2)
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
	})
}

func CheckReadDirNames(afs fs.FS) {
	Convey("readdirnames should list every child", func() {
		for _, name := range []string{"b", "a", "c"} {
			So(afs.Mkdir(fs.MustRelPath(name), 0755), ShouldBeNil)
		}
		names, err := afs.ReadDirNames(fs.RelPath{})
		So(err, ShouldBeNil)
		sort.Strings(names)
		So(names, ShouldResemble, []string{"a", "b", "c"})
	})
}

func CheckRemoveAll(afs fs.FS) {
	Convey("removeall should remove a whole subtree", func() {
		So(afs.Mkdir(fs.MustRelPath("d1"), 0755), ShouldBeNil)
		So(afs.Mkdir(fs.MustRelPath("d1/d2"), 0755), ShouldBeNil)
		So(afs.RemoveAll(fs.MustRelPath("d1")), ShouldBeNil)
		_, err := afs.LStat(fs.MustRelPath("d1"))
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
		Convey("and removing something absent is fine", func() {
			So(afs.RemoveAll(fs.MustRelPath("d1")), ShouldBeNil)
		})
	})
}

func CheckBreakout(afs fs.FS) {
	Convey("paths leaving the base should be refused", func() {
		_, err := afs.LStat(fs.MustRelPath("../outside"))
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrBreakout)
	})
}
