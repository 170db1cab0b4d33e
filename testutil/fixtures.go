package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/fs"
)

/*
	One entry of a fixture archive.
	Names ending in a slash are directories; everything else is a regular file.
*/
type FixtureFile struct {
	Name string
	Body string
}

// The tree most tests extract: a couple of dirs, a couple of files.
var FixtureTree = []FixtureFile{
	{"files/", ""},
	{"files/bin/", ""},
	{"files/bin/hello", "#!/bin/sh\necho hello\n"},
	{"metadata", "[Application]\nname=org.example.Hello\n"},
}

/*
	Builds an uncompressed tar stream of the given entries.
*/
func BuildTar(files ...FixtureFile) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	mtime := time.Unix(1500000000, 0)
	for _, f := range files {
		hdr := &tar.Header{Name: f.Name, ModTime: mtime}
		if strings.HasSuffix(f.Name, "/") {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Mode = 0644
			hdr.Size = int64(len(f.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			panic(err)
		}
		if _, err := tw.Write([]byte(f.Body)); err != nil {
			panic(err)
		}
	}
	if err := tw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

/*
	Writes a tarball of the given entries to path.
	Only the compressions we can produce in-process are supported
	(none, gzip, zstd); anything else panics.
*/
func MustWriteTarball(path fs.AbsolutePath, compression api.Compression, files ...FixtureFile) {
	raw := BuildTar(files...)
	var buf bytes.Buffer
	switch compression {
	case api.Compression_None:
		buf.Write(raw)
	case api.Compression_Gzip:
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(raw); err != nil {
			panic(err)
		}
		if err := gw.Close(); err != nil {
			panic(err)
		}
	case api.Compression_Zstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			panic(err)
		}
		if _, err := zw.Write(raw); err != nil {
			panic(err)
		}
		if err := zw.Close(); err != nil {
			panic(err)
		}
	default:
		panic("testutil: cannot produce " + string(compression) + " fixtures")
	}
	MustWriteFile(path, "")
	if err := ioutil.WriteFile(path.String(), buf.Bytes(), 0644); err != nil {
		panic(err)
	}
}
