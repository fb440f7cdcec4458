package cli

import (
	"errors"

	"github.com/ZanzyTHEbar/shatag-go/shatag/integrity"
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"
)

// Process exit codes. Scripts rely on ExitCorrupt staying distinct.
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitOpen       = 2
	ExitNotRegular = 3
	ExitWriteAttr  = 4
	ExitCorrupt    = 5
	ExitOther      = 6
)

// exitCodeFor maps a failed check to its exit code
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, integrity.ErrNotRegular):
		return ExitNotRegular
	case errors.Is(err, integrity.ErrStat):
		return ExitOpen
	case errors.Is(err, metadata.ErrAttrWrite):
		return ExitWriteAttr
	default:
		return ExitOther
	}
}
