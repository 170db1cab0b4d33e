/*
	Helpers for loading contextual config.

	Config for flatpak-extract means "things that are the host machine operator's concerns":
	which ostree and tar binaries to use, and where scratch repositories may live.
	These are read from the environment, as opposed to parameters for a single
	extraction, which are given as flags.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/thespy7/flatpak-extract/fs"
)

/*
	Return the executable used for all ostree operations.

	The default value is `"ostree"` (looked up on the PATH);
	this can be overriden by the `FLATPAK_EXTRACT_OSTREE` environment variable.
*/
func GetOstreeBin() string {
	if bin := os.Getenv("FLATPAK_EXTRACT_OSTREE"); bin != "" {
		return bin
	}
	return "ostree"
}

/*
	Return the tar-capable executables to try, in order of preference.

	The default value is `["bsdtar", "tar"]`, because bsdtar copes with more
	archive formats and compressions;
	setting the `FLATPAK_EXTRACT_TAR` environment variable puts that
	executable at the front of the list.
*/
func GetTarPreference() []string {
	pref := []string{"bsdtar", "tar"}
	if bin := os.Getenv("FLATPAK_EXTRACT_TAR"); bin != "" {
		return append([]string{bin}, pref...)
	}
	return pref
}

/*
	Return the directory in which scratch repositories are created
	when no explicit path is requested.

	The default value is the system temp dir (`$TMPDIR`, or `/tmp`);
	this can be overriden by the `FLATPAK_EXTRACT_TMPDIR` environment variable.
*/
func GetScratchBasePath() fs.AbsolutePath {
	pth := os.Getenv("FLATPAK_EXTRACT_TMPDIR")
	if pth == "" {
		pth = os.TempDir()
	}
	pth, err := filepath.Abs(pth)
	if err != nil {
		panic(err)
	}
	return fs.MustAbsolutePath(pth)
}
