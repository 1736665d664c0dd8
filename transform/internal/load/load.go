package load

import (
	"encoding/binary"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/errors"
)

// Int64 interprets the first width bytes of b as a signed two's-complement
// integer and returns it sign-extended to 64 bits. width must be 1, 2, 4,
// or 8; anything else is a contract violation (the caller has already
// validated the width against the language's integer kinds).
func Int64(b []byte, width uint64) int64 {
	switch width {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.NativeEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.NativeEndian.Uint32(b)))
	case 8:
		return int64(binary.NativeEndian.Uint64(b))
	default:
		arrayruntime.Crash(errors.UnsupportedWidth(width))
		return 0
	}
}
