/*
	Generates unique names, suitable for temp files and dirs.

	Names are random (version 4) UUIDs in their canonical hyphenated form,
	which is safe in paths on every filesystem we care about.
*/
package guid

import (
	"github.com/google/uuid"
)

func New() string {
	return uuid.NewString()
}
