package detect

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	. "github.com/warpfork/go-errcat"
	"github.com/xi2/xz"

	"github.com/thespy7/flatpak-extract/api"
)

/*
	Opens the bundle, decompresses it in-process, and reads the first tar header.

	This is a sanity check, not an extraction: it returns the compression seen
	and the name of the first archive entry.  Callers should treat failure as
	advisory, since the external tar tools understand more formats than we do.
	Errors are categorized api.ErrInoperablePath when the file can't be read
	at all, and api.ErrUsage when the content isn't a tar stream we understand.
*/
func ProbeTar(path string) (api.Compression, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", Errorf(api.ErrInoperablePath, "cannot open bundle: %s", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	header, err := br.Peek(HeaderSize)
	if err != nil && err != io.EOF {
		return "", "", Errorf(api.ErrInoperablePath, "cannot read bundle: %s", err)
	}
	compression := DetectCompression(header)

	var r io.Reader
	switch compression {
	case api.Compression_Gzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return compression, "", Errorf(api.ErrUsage, "corrupt gzip stream: %s", err)
		}
		defer gr.Close()
		r = gr
	case api.Compression_Bzip2:
		r = bzip2.NewReader(br)
	case api.Compression_Xz:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return compression, "", Errorf(api.ErrUsage, "corrupt xz stream: %s", err)
		}
		r = xr
	case api.Compression_Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return compression, "", Errorf(api.ErrUsage, "corrupt zstd stream: %s", err)
		}
		defer zr.Close()
		r = zr
	default:
		r = br
	}

	hdr, err := tar.NewReader(r).Next()
	if err != nil {
		return compression, "", Errorf(api.ErrUsage, "not a tar stream: %s", err)
	}
	return compression, hdr.Name, nil
}
