package cmdrun

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
	. "github.com/thespy7/flatpak-extract/testutil"
)

func drain(ch chan api.Event) (evts []api.Event_Log) {
	for {
		select {
		case evt := <-ch:
			evts = append(evts, *evt.Log)
		default:
			return
		}
	}
}

func detail(evt api.Event_Log, key string) string {
	for _, kv := range evt.Detail {
		if kv[0] == key {
			return kv[1]
		}
	}
	return ""
}

func TestRun(t *testing.T) {
	Convey("Running commands:", t, Requires(RequiresTool("sh"), func() {
		ch := make(chan api.Event, 16)
		x := Exec{Mon: api.Monitor{Chan: ch}}
		ctx := context.Background()

		Convey("a zero exit is success", func() {
			So(x.Run(ctx, "sh", "-c", "echo hello; echo world >&2"), ShouldBeNil)
			evts := drain(ch)
			So(evts, ShouldHaveLength, 2)
			So(evts[0].Msg, ShouldEqual, "running: sh -c echo hello; echo world >&2")
			So(evts[1].Level, ShouldEqual, api.LogInfo)
			So(detail(evts[1], "stdout"), ShouldEqual, "hello")
			So(detail(evts[1], "stderr"), ShouldEqual, "world")
		})
		Convey("a non-zero exit is ErrCommandFailed with details", func() {
			err := x.Run(ctx, "sh", "-c", "echo oops >&2; exit 3")
			So(err, errcat.ErrorShouldHaveCategory, api.ErrCommandFailed)
			details := err.(errcat.Error).Details()
			So(details["exit_code"], ShouldEqual, "3")
			So(details["stderr"], ShouldEqual, "oops\n")
			evts := drain(ch)
			So(evts[len(evts)-1].Level, ShouldEqual, api.LogError)
		})
		Convey("death by signal is reported as 128+signal", func() {
			err := x.Run(ctx, "sh", "-c", "kill -9 $$")
			So(err, errcat.ErrorShouldHaveCategory, api.ErrCommandFailed)
			So(err.(errcat.Error).Details()["exit_code"], ShouldEqual, "137")
		})
		Convey("a missing executable is ErrMissingDependency", func() {
			err := x.Run(ctx, "flatpak-extract-no-such-tool")
			So(err, errcat.ErrorShouldHaveCategory, api.ErrMissingDependency)
			So(drain(ch), ShouldHaveLength, 0)
		})
		Convey("an empty argv is a usage error", func() {
			So(x.Run(ctx), errcat.ErrorShouldHaveCategory, api.ErrUsage)
		})
		Convey("cancellation interrupts the child", Requires(RequiresTool("sleep"), func() {
			ctx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(50 * time.Millisecond)
				cancel()
			}()
			start := time.Now()
			err := x.Run(ctx, "sleep", "10")
			So(err, errcat.ErrorShouldHaveCategory, api.ErrCancelled)
			So(time.Since(start), ShouldBeLessThan, 5*time.Second)
		}))
		Convey("cancellation doesn't wait on a grandchild holding the output open, and keeps the output", Requires(RequiresTool("sleep"), func() {
			ctx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(200 * time.Millisecond)
				cancel()
			}()
			start := time.Now()
			err := x.Run(ctx, "sh", "-c", "echo partial-output; echo diag >&2; sleep 5")
			So(time.Since(start), ShouldBeLessThan, 2*time.Second)
			So(err, errcat.ErrorShouldHaveCategory, api.ErrCancelled)
			So(err.(errcat.Error).Details()["stdout"], ShouldEqual, "partial-output\n")
			evts := drain(ch)
			So(evts, ShouldHaveLength, 2)
			So(detail(evts[1], "stdout"), ShouldEqual, "partial-output")
			So(detail(evts[1], "stderr"), ShouldEqual, "diag")
		}))
		Convey("an already-cancelled context runs nothing", func() {
			ctx, cancel := context.WithCancel(ctx)
			cancel()
			So(x.Run(ctx, "sh", "-c", "exit 0"), errcat.ErrorShouldHaveCategory, api.ErrCancelled)
			So(drain(ch), ShouldHaveLength, 0)
		})
	}))
}

func TestLookPath(t *testing.T) {
	Convey("Resolving executables:", t, func() {
		x := Exec{}
		WithTmpdir(func(tmpDir fs.AbsolutePath) {
			Convey("paths with a slash are checked directly", func() {
				pth := tmpDir.Join(fs.MustRelPath("tool"))
				MustWriteFile(pth, "#!/bin/sh\n")
				So(os.Chmod(pth.String(), 0755), ShouldBeNil)
				got, err := x.LookPath(pth.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, pth.String())
				So(Available(x, pth.String()), ShouldBeTrue)
			})
			Convey("a start failure is only a missing dependency if something is missing", func() {
				ch := make(chan api.Event, 16)
				x := Exec{Mon: api.Monitor{Chan: ch}}
				Convey("a script whose interpreter is absent is ErrMissingDependency", func() {
					pth := tmpDir.Join(fs.MustRelPath("orphan-script"))
					MustWriteFile(pth, "#!/flatpak-extract-no-such-interp\n")
					So(os.Chmod(pth.String(), 0755), ShouldBeNil)
					err := x.Run(context.Background(), pth.String())
					So(err, errcat.ErrorShouldHaveCategory, api.ErrMissingDependency)
				})
				Convey("an executable in no known format is ErrCommandFailed", func() {
					pth := tmpDir.Join(fs.MustRelPath("not-a-binary"))
					MustWriteFile(pth, "garbage\n")
					So(os.Chmod(pth.String(), 0755), ShouldBeNil)
					err := x.Run(context.Background(), pth.String())
					So(err, errcat.ErrorShouldHaveCategory, api.ErrCommandFailed)
				})
			})
			Convey("non-executable files are refused", Requires(RequiresNoDACOverride, func() {
				pth := tmpDir.Join(fs.MustRelPath("data"))
				MustWriteFile(pth, "")
				_, err := x.LookPath(pth.String())
				So(err, errcat.ErrorShouldHaveCategory, api.ErrMissingDependency)
			}))
			Convey("directories are refused", func() {
				_, err := x.LookPath(tmpDir.String())
				So(err, errcat.ErrorShouldHaveCategory, api.ErrMissingDependency)
			})
			Convey("missing paths are refused", func() {
				_, err := x.LookPath(tmpDir.Join(fs.MustRelPath("nope")).String())
				So(err, errcat.ErrorShouldHaveCategory, api.ErrMissingDependency)
				So(Available(x, tmpDir.Join(fs.MustRelPath("nope")).String()), ShouldBeFalse)
			})
		})
		Convey("bare names search the PATH", Requires(RequiresTool("sh"), func() {
			got, err := x.LookPath("sh")
			So(err, ShouldBeNil)
			So(got, ShouldEndWith, "/sh")
			So(Available(x, "flatpak-extract-no-such-tool"), ShouldBeFalse)
		}))
	})
}
