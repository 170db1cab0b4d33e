package main

import (
	"io"

	. "github.com/warpfork/go-errcat"

	"github.com/thespy7/flatpak-extract/api"
)

func demuxPrinter(format string, stdout, stderr io.Writer) (printer, error) {
	switch format {
	case FmtDumb:
		return &dumbPrinter{stdout, stderr}, nil
	case FmtJson:
		return &jsonPrinter{stdout}, nil
	default:
		return nil, Errorf(api.ErrUsage, "unsupported format %q", format)
	}
}
