/*
	Recognizing bundle formats.

	Flatpak bundles come in two shapes: the legacy format is an OSTree
	static delta (a GVariant blob which mentions "OSTREE" in its header),
	and the modern format is a plain tar archive, usually compressed.
	A few magic bytes are enough to tell them apart; when they aren't,
	the filename decides.
*/
package detect

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thespy7/flatpak-extract/api"
	"github.com/thespy7/flatpak-extract/transmat/mixins/log"
)

// How much of the file start we look at.
const HeaderSize = 16

var ostreeMarker = []byte("OSTREE")

var magics = []struct {
	compression api.Compression
	magic       []byte
}{
	{api.Compression_Gzip, []byte{0x1F, 0x8B}},
	{api.Compression_Xz, []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A}},
	{api.Compression_Bzip2, []byte{0x42, 0x5A, 0x68}},
	{api.Compression_Zstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
}

/*
	Names the compression the header starts with,
	or Compression_None if it starts with none we know.
*/
func DetectCompression(header []byte) api.Compression {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.compression
		}
	}
	return api.Compression_None
}

/*
	Classifies a bundle from the first bytes of its content and its name.

	The OSTree marker wins over everything; then compression magic means tar;
	then a ".flatpak" extension means ostree; anything else is assumed tar.
	Only the first HeaderSize bytes of header are considered.
*/
func Sniff(header []byte, filename string) api.BundleType {
	if len(header) > HeaderSize {
		header = header[:HeaderSize]
	}
	if bytes.Contains(header, ostreeMarker) {
		return api.BundleType_OSTree
	}
	if DetectCompression(header) != api.Compression_None {
		return api.BundleType_Tar
	}
	if Ext(filename) == ".flatpak" {
		return api.BundleType_OSTree
	}
	return api.BundleType_Tar
}

/*
	Returns the extension of the last element of name.

	Unlike filepath.Ext, a leading dot marks a hidden file rather than
	an extension: ".flatpak" has none, ".app.flatpak" has ".flatpak".
*/
func Ext(name string) string {
	return filepath.Ext(strings.TrimPrefix(filepath.Base(name), "."))
}

/*
	Reads the header of the file at path and classifies it.

	Short files are fine.  Any failure to read is reported to the monitor
	as a warning and the answer is tar: detection never fails.
*/
func DetectBundleType(path string, mon api.Monitor) api.BundleType {
	header, err := readHeader(path)
	if err != nil {
		log.DetectionFailed(mon, path, err)
		return api.BundleType_Tar
	}
	return Sniff(header, path)
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, header)
	switch err {
	case nil, io.EOF, io.ErrUnexpectedEOF:
		return header[:n], nil
	default:
		return nil, err
	}
}
