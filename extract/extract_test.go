package extract

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
	. "github.com/thespy7/flatpak-extract/testutil"
)

// Fakes the filesystem effects of ostree, recording the scratch repo it was pointed at.
func fakeOstree(scratchSeen *string) func(argv []string) error {
	return func(argv []string) error {
		switch argv[1] {
		case "init":
			*scratchSeen = strings.TrimPrefix(argv[2], "--repo=")
			return os.MkdirAll(*scratchSeen+"/objects", 0755)
		case "static-delta":
			MustWriteFile(fs.MustAbsolutePath(*scratchSeen+"/objects/ab/cdef.commit"), "")
		case "checkout":
			MustWriteFile(fs.MustAbsolutePath(argv[5]+"/files/hello"), "hi")
		}
		return nil
	}
}

func collect(fn func(mon api.Monitor)) []api.Event {
	ch := make(chan api.Event)
	done := make(chan []api.Event)
	go func() {
		var evts []api.Event
		for evt := range ch {
			evts = append(evts, evt)
		}
		done <- evts
	}()
	fn(api.Monitor{Chan: ch})
	return <-done
}

func TestDefaultOutDir(t *testing.T) {
	Convey("Default output dirs are named after the bundle, in the cwd", t, func() {
		WithTmpdir(func(tmpDir fs.AbsolutePath) {
			WithChdir(tmpDir, func() {
				dir, err := DefaultOutDir("/elsewhere/org.example.App.flatpak")
				So(err, ShouldBeNil)
				So(dir, ShouldEqual, filepath.Join(tmpDir.String(), "org.example.App-extract"))
				dir, err = DefaultOutDir("bundle")
				So(err, ShouldBeNil)
				So(dir, ShouldEqual, filepath.Join(tmpDir.String(), "bundle-extract"))
				dir, err = DefaultOutDir("/x/.flatpak")
				So(err, ShouldBeNil)
				So(dir, ShouldEqual, filepath.Join(tmpDir.String(), ".flatpak-extract"))
			})
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Extraction:", t, func() {
		WithTmpdir(func(tmpDir fs.AbsolutePath) {
			ctx := context.Background()
			ostreeBundle := tmpDir.Join(fs.MustRelPath("app.flatpak"))
			MustWriteFile(ostreeBundle, "\x00\x00\x00\x00OSTREE\x00\x00")
			tarBundle := tmpDir.Join(fs.MustRelPath("app.bundle"))
			MustWriteTarball(tarBundle, api.Compression_Gzip, FixtureTree...)
			outDir := tmpDir.Join(fs.MustRelPath("out"))
			scratch := tmpDir.Join(fs.MustRelPath("scratch"))

			Convey("refuses", func() {
				run := &FakeRunner{}
				Convey("a missing bundle", func() {
					_, err := Extract(ctx, run, Request{Bundle: tmpDir.Join(fs.MustRelPath("nope")).String(), OutDir: outDir.String()}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrBundleNotFound)
				})
				Convey("a bundle that's a dir", func() {
					_, err := Extract(ctx, run, Request{Bundle: tmpDir.String(), OutDir: outDir.String()}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrBundleNotFound)
				})
				Convey("no bundle at all", func() {
					_, err := Extract(ctx, run, Request{}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrUsage)
				})
				Convey("an unknown type", func() {
					_, err := Extract(ctx, run, Request{Bundle: tarBundle.String(), OutDir: outDir.String(), Type: "zip"}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrUsage)
				})
				Convey("an existing output dir, leaving it untouched", func() {
					MustWriteFile(outDir.Join(fs.MustRelPath("precious")), "keep me")
					for _, bundle := range []fs.AbsolutePath{ostreeBundle, tarBundle} {
						_, err := Extract(ctx, run, Request{Bundle: bundle.String(), OutDir: outDir.String()}, api.Monitor{})
						So(err, ErrorShouldHaveCategory, api.ErrPathExists)
					}
					names, err := ioutil.ReadDir(outDir.String())
					So(err, ShouldBeNil)
					So(names, ShouldHaveLength, 1)
					body, err := ioutil.ReadFile(outDir.Join(fs.MustRelPath("precious")).String())
					So(err, ShouldBeNil)
					So(string(body), ShouldEqual, "keep me")
				})
				Convey("an existing scratch dir, leaving it untouched", func() {
					MustWriteFile(scratch.Join(fs.MustRelPath("precious")), "keep me")
					_, err := Extract(ctx, run, Request{Bundle: ostreeBundle.String(), OutDir: outDir.String(), ScratchDir: scratch.String(), OstreeBin: "ostree"}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrPathExists)
					ShouldExist(scratch.Join(fs.MustRelPath("precious")))
					ShouldNotExist(outDir)
				})
				Convey("an ostree bundle without ostree", func() {
					run.Missing = map[string]bool{"ostree": true}
					_, err := Extract(ctx, run, Request{Bundle: ostreeBundle.String(), OutDir: outDir.String(), ScratchDir: scratch.String(), OstreeBin: "ostree"}, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrMissingDependency)
				})
				So(run.Calls, ShouldHaveLength, 0)
			})

			Convey("ostree bundles", func() {
				var seen string
				run := &FakeRunner{Handler: fakeOstree(&seen)}
				req := Request{Bundle: ostreeBundle.String(), OutDir: outDir.String(), ScratchDir: scratch.String(), OstreeBin: "ostree"}

				Convey("are detected, checked out, and the scratch repo removed", func() {
					var res api.Result
					var err error
					evts := collect(func(mon api.Monitor) {
						res, err = Extract(ctx, run, req, mon)
					})
					So(err, ShouldBeNil)
					So(res.BundleType, ShouldEqual, api.BundleType_OSTree)
					So(res.CommitHash, ShouldEqual, "abcdef")
					So(res.OutDir, ShouldEqual, outDir.String())
					So(seen, ShouldEqual, scratch.String())
					So(run.Subcommands(), ShouldResemble, []string{"init", "static-delta", "checkout"})
					ShouldExist(outDir.Join(fs.MustRelPath("files/hello")))
					ShouldNotExist(scratch)
					So(len(evts), ShouldBeGreaterThan, 0)
				})
				Convey("have the scratch repo removed after failures too", func() {
					fake := run.Handler
					run.Handler = func(argv []string) error {
						if argv[1] == "checkout" {
							return Errorf(api.ErrCommandFailed, "checkout exploded")
						}
						return fake(argv)
					}
					_, err := Extract(ctx, run, req, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrCommandFailed)
					So(seen, ShouldEqual, scratch.String())
					ShouldNotExist(scratch)
				})
				Convey("get a generated scratch repo under the configured base", func() {
					base := tmpDir.Join(fs.MustRelPath("scratchbase"))
					So(os.Mkdir(base.String(), 0755), ShouldBeNil)
					os.Setenv("FLATPAK_EXTRACT_TMPDIR", base.String())
					defer os.Unsetenv("FLATPAK_EXTRACT_TMPDIR")
					req.ScratchDir = ""
					_, err := Extract(ctx, run, req, api.Monitor{})
					So(err, ShouldBeNil)
					So(filepath.Dir(seen), ShouldEqual, base.String())
					So(filepath.Base(seen), ShouldStartWith, "flatpak-extract-")
					ShouldNotExist(fs.MustAbsolutePath(seen))
				})
				Convey("escalate a failed cleanup after success", Requires(RequiresNoDACOverride, func() {
					parent := tmpDir.Join(fs.MustRelPath("locked"))
					So(os.Mkdir(parent.String(), 0755), ShouldBeNil)
					req.ScratchDir = parent.Join(fs.MustRelPath("scratch")).String()
					fake := run.Handler
					run.Handler = func(argv []string) error {
						err := fake(argv)
						if argv[1] == "checkout" {
							os.Chmod(parent.String(), 0555)
						}
						return err
					}
					defer os.Chmod(parent.String(), 0755)
					_, err := Extract(ctx, run, req, api.Monitor{})
					So(err, ErrorShouldHaveCategory, api.ErrCleanupFailed)
					ShouldExist(outDir.Join(fs.MustRelPath("files/hello")))
				}))
				Convey("go the ostree way when forced, whatever they look like", func() {
					req.Bundle = tarBundle.String()
					req.Type = api.BundleType_OSTree
					res, err := Extract(ctx, run, req, api.Monitor{})
					So(err, ShouldBeNil)
					So(res.BundleType, ShouldEqual, api.BundleType_OSTree)
					So(run.Calls[0][0], ShouldEqual, "ostree")
				})
			})

			Convey("tar bundles", func() {
				run := &FakeRunner{}
				Convey("are detected and extracted by the preferred tool", func() {
					res, err := Extract(ctx, run, Request{Bundle: tarBundle.String(), OutDir: outDir.String(), TarTools: []string{"bsdtar", "tar"}}, api.Monitor{})
					So(err, ShouldBeNil)
					So(res.BundleType, ShouldEqual, api.BundleType_Tar)
					So(res.Tool, ShouldEqual, "bsdtar")
					So(run.Calls, ShouldResemble, [][]string{{"bsdtar", "-xf", tarBundle.String(), "-C", outDir.String()}})
				})
				Convey("go the tar way when forced, whatever they look like", func() {
					res, err := Extract(ctx, run, Request{Bundle: ostreeBundle.String(), OutDir: outDir.String(), Type: api.BundleType_Tar, TarTools: []string{"tar"}}, api.Monitor{})
					So(err, ShouldBeNil)
					So(res.BundleType, ShouldEqual, api.BundleType_Tar)
					So(run.Calls[0][0], ShouldEqual, "tar")
				})
				Convey("default their output dir into the cwd", func() {
					WithChdir(tmpDir, func() {
						res, err := Extract(ctx, run, Request{Bundle: "app.bundle", TarTools: []string{"tar"}}, api.Monitor{})
						So(err, ShouldBeNil)
						So(res.OutDir, ShouldEqual, tmpDir.Join(fs.MustRelPath("app-extract")).String())
						So(res.Bundle, ShouldEqual, tarBundle.String())
					})
				})
			})
		})
	})
}
