package config

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/thespy7/flatpak-extract/fs"
)

func withEnv(key, value string, fn func()) {
	prev, had := os.LookupEnv(key)
	os.Setenv(key, value)
	defer func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	}()
	fn()
}

func TestConfig(t *testing.T) {
	Convey("Config from the environment:", t, func() {
		Convey("ostree defaults to a PATH lookup", func() {
			withEnv("FLATPAK_EXTRACT_OSTREE", "", func() {
				So(GetOstreeBin(), ShouldEqual, "ostree")
			})
		})
		Convey("ostree can be overridden", func() {
			withEnv("FLATPAK_EXTRACT_OSTREE", "/opt/ostree/bin/ostree", func() {
				So(GetOstreeBin(), ShouldEqual, "/opt/ostree/bin/ostree")
			})
		})
		Convey("tar preference defaults to bsdtar first", func() {
			withEnv("FLATPAK_EXTRACT_TAR", "", func() {
				So(GetTarPreference(), ShouldResemble, []string{"bsdtar", "tar"})
			})
		})
		Convey("a tar override goes to the front of the list", func() {
			withEnv("FLATPAK_EXTRACT_TAR", "gtar", func() {
				So(GetTarPreference(), ShouldResemble, []string{"gtar", "bsdtar", "tar"})
			})
		})
		Convey("scratch base can be overridden, and is made absolute", func() {
			withEnv("FLATPAK_EXTRACT_TMPDIR", "/var/tmp/../tmp", func() {
				So(GetScratchBasePath(), ShouldResemble, fs.MustAbsolutePath("/var/tmp"))
			})
		})
	})
}
