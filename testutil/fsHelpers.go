package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/smartystreets/goconvey/convey"

	"github.com/thespy7/flatpak-extract/fs"
)

/*
	Creates a fresh temp dir, calls fn with its (symlink-resolved) path,
	and removes the whole thing afterwards.
*/
func WithTmpdir(fn func(tmpDir fs.AbsolutePath)) {
	dir, err := ioutil.TempDir("", "flatpak-extract-test-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	fn(fs.MustAbsolutePath(dir))
}

/*
	Runs fn with the process working directory set to dir,
	restoring the previous one afterwards.
*/
func WithChdir(dir fs.AbsolutePath, fn func()) {
	prev, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir.String()); err != nil {
		panic(err)
	}
	defer func() {
		if err := os.Chdir(prev); err != nil {
			panic(err)
		}
	}()
	fn()
}

/*
	Writes a file (making parent dirs as needed).  Panics on failure;
	for use in test setup only.
*/
func MustWriteFile(path fs.AbsolutePath, body string) {
	if err := os.MkdirAll(path.Dir().String(), 0755); err != nil {
		panic(err)
	}
	if err := ioutil.WriteFile(path.String(), []byte(body), 0644); err != nil {
		panic(err)
	}
}

func ShouldStat(afs fs.FS, path fs.RelPath) fs.Metadata {
	stat, err := afs.LStat(path)
	convey.So(err, convey.ShouldBeNil)
	stat.Mtime = stat.Mtime.UTC()
	return *stat
}

func ShouldExist(path fs.AbsolutePath) {
	_, err := os.Lstat(path.String())
	convey.So(err, convey.ShouldBeNil)
}

func ShouldNotExist(path fs.AbsolutePath) {
	_, err := os.Lstat(path.String())
	convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
}
