/*
	Provides helper functions for checking if we have some functional sets of capabilities.
*/
package caps

import (
	"os"
	"runtime"

	"github.com/syndtr/gocapability/capability"
)

func Scan() *Fulcrum {
	var err error
	f := &Fulcrum{}
	f.onLinux = runtime.GOOS == "linux"
	f.ourUID = os.Getuid()
	if f.onLinux {
		f.ourCaps, err = capability.NewPid(0) // zero means self
		if err != nil {
			panic(err)
		}
	}
	return f
}

type Fulcrum struct {
	onLinux bool
	ourUID  int
	ourCaps capability.Capabilities // valid on linux; nil elsewhere (causing completely different logic).
}

// Whether file permission bits are checked against us at all.
// We sum this up as "have CAP_DAC_OVERRIDE" (or CAP_DAC_READ_SEARCH, which is
// enough to list and read anything);
// or, off linux, is uid==0.
//
// If this is true, a directory with no permission bits is still listable,
// and anything that expects "permission denied" won't see it.
func (f Fulcrum) BypassesFilePerms() bool {
	if !f.onLinux {
		return f.ourUID == 0
	}
	return f.ourCaps.Get(capability.EFFECTIVE, capability.CAP_DAC_OVERRIDE) ||
		f.ourCaps.Get(capability.EFFECTIVE, capability.CAP_DAC_READ_SEARCH)
}
