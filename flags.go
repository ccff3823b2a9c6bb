package surface

import (
	"fmt"
	"strings"
)

// Flags describe how a surface's pixel memory is managed.
type Flags uint32

// Surface flags.
const (
	// SWSurface is a plain surface in system memory.
	SWSurface Flags = 0

	// PreAlloc marks pixel memory that was supplied by the caller.
	PreAlloc Flags = 0x00000001

	// RLEAccel marks surfaces that use run-length encoding for blits.
	RLEAccel Flags = 0x00000002

	// DontFree marks surfaces whose memory is never released.
	DontFree Flags = 0x00000004
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{PreAlloc, "PreAlloc"},
	{RLEAccel, "RLEAccel"},
	{DontFree, "DontFree"},
}

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	if f == SWSurface {
		return "SWSurface"
	}
	var names []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
			f &^= n.flag
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(f)))
	}
	return strings.Join(names, "|")
}
