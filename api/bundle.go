package api

/*
	This file holds the serializable vocabulary of flatpak-extract:
	bundle kinds, compression kinds, and the result of an extraction.
*/

import (
	"github.com/warpfork/go-errcat"
)

/*
	BundleType names one of the two bundle formats we know how to extract.

	Legacy bundles are OSTree static deltas and need a scratch repository;
	modern bundles are (possibly compressed) tar archives.
*/
type BundleType string

const (
	BundleType_Auto   = BundleType("auto") // only valid as a request; never a detection result.
	BundleType_OSTree = BundleType("ostree")
	BundleType_Tar    = BundleType("tar")
)

func ParseBundleType(x string) (BundleType, error) {
	switch BundleType(x) {
	case "", BundleType_Auto:
		return BundleType_Auto, nil
	case BundleType_OSTree, BundleType_Tar:
		return BundleType(x), nil
	default:
		return "", errcat.Errorf(ErrUsage, "unknown bundle type %q (valid options are 'auto', 'ostree', or 'tar')", x)
	}
}

/*
	Compression names the stream compression found at the start of a bundle,
	as recognized by magic bytes.
*/
type Compression string

const (
	Compression_None  = Compression("none")
	Compression_Gzip  = Compression("gzip")
	Compression_Xz    = Compression("xz")
	Compression_Bzip2 = Compression("bzip2")
	Compression_Zstd  = Compression("zstd")
)

/*
	Result describes a finished extraction.

	CommitHash is only set for OSTree bundles; Tool is only set for tar bundles.
*/
type Result struct {
	Bundle      string      `refmt:"bundle"`
	BundleType  BundleType  `refmt:"bundleType"`
	Compression Compression `refmt:"compression,omitempty"`
	OutDir      string      `refmt:"outdir"`
	CommitHash  string      `refmt:"commit,omitempty"`
	Tool        string      `refmt:"tool,omitempty"`
}

/*
	Workspace is the set of paths a single extraction operates on.
	All paths are absolute.

	ScratchDir is only used by OSTree extraction; it must not exist
	when extraction begins.
*/
type Workspace struct {
	Bundle     string
	OutDir     string
	ScratchDir string
}
