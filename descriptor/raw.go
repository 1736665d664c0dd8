package descriptor

import (
	"encoding/binary"
	"unsafe"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/errors"
)

// Raw interop layout. Compiler-generated callers construct and inspect this
// form directly, so every offset and size below is part of the ABI and must
// not change.
//
//	offset  size  field
//	0       8     base address
//	8       8     element size in bytes
//	16      4     descriptor version
//	20      1     rank
//	21      1     type code
//	22      1     attribute
//	23      1     extra (bit 0: addendum present)
//	24      24×r  per-dimension {lower bound, extent, byte stride}
//	...           addendum: derived-type handle (8), flags (8), length parameters (8 each)
const (
	RawVersion = 1

	rawOffBase      = 0
	rawOffElemLen   = 8
	rawOffVersion   = 16
	rawOffRank      = 20
	rawOffType      = 21
	rawOffAttribute = 22
	rawOffExtra     = 23
	rawHeaderBytes  = 24
	rawDimBytes     = 24

	rawExtraAddendum = 1 << 0
)

// Raw type codes, one per (category, kind width) pair the compiler emits.
const (
	rawTypeInt8 int8 = iota + 1
	rawTypeInt16
	rawTypeInt32
	rawTypeInt64
	rawTypeReal32
	rawTypeReal64
	rawTypeLogical8
	rawTypeLogical16
	rawTypeLogical32
	rawTypeLogical64
	rawTypeChar8
	rawTypeChar16
	rawTypeChar32
	rawTypeDerived
)

// RawSize returns the encoded size of the descriptor in bytes.
func (d *Descriptor) RawSize() int {
	n := rawHeaderBytes + d.rank*rawDimBytes
	if d.addendum != nil {
		n += 16 + 8*len(d.addendum.lenParams)
	}
	return n
}

// EncodeRaw writes the descriptor in the interop layout. The encoded base
// address refers to the descriptor's live storage; the encoding is only
// meaningful within the current process and while d is alive.
func (d *Descriptor) EncodeRaw() []byte {
	code, err := rawTypeCode(d.typ)
	if err != nil {
		arrayruntime.Crash(err)
	}

	buf := make([]byte, d.RawSize())
	var base uint64
	if d.allocated && len(d.data) > 0 {
		base = uint64(uintptr(unsafe.Pointer(&d.data[0])))
	}
	binary.NativeEndian.PutUint64(buf[rawOffBase:], base)
	binary.NativeEndian.PutUint64(buf[rawOffElemLen:], d.elementBytes)
	binary.NativeEndian.PutUint32(buf[rawOffVersion:], RawVersion)
	buf[rawOffRank] = byte(d.rank)
	buf[rawOffType] = byte(code)
	buf[rawOffAttribute] = byte(d.attr)
	if d.addendum != nil {
		buf[rawOffExtra] |= rawExtraAddendum
	}

	off := rawHeaderBytes
	for j := 0; j < d.rank; j++ {
		dim := d.dims[j]
		binary.NativeEndian.PutUint64(buf[off:], uint64(dim.lowerBound))
		binary.NativeEndian.PutUint64(buf[off+8:], uint64(dim.extent))
		binary.NativeEndian.PutUint64(buf[off+16:], uint64(dim.byteStride))
		off += rawDimBytes
	}

	if a := d.addendum; a != nil {
		binary.NativeEndian.PutUint64(buf[off:], uint64(uintptr(unsafe.Pointer(a.derived))))
		binary.NativeEndian.PutUint64(buf[off+8:], uint64(a.flags))
		off += 16
		for _, v := range a.lenParams {
			binary.NativeEndian.PutUint64(buf[off:], uint64(v))
			off += 8
		}
	}
	return buf
}

// DecodeRaw rebuilds a descriptor view from its interop encoding. The
// result aliases the encoded base address; it does not own the storage and
// carries AttrOther regardless of how the storage was obtained unless the
// encoded attribute says otherwise.
func DecodeRaw(buf []byte) (*Descriptor, error) {
	if len(buf) < rawHeaderBytes {
		return nil, errors.InvalidData(errors.PhaseLayout, "raw descriptor shorter than header")
	}
	if v := binary.NativeEndian.Uint32(buf[rawOffVersion:]); v != RawVersion {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidData).
			Value(v).
			Detail("unsupported descriptor version %d", v).
			Build()
	}
	rank := int(buf[rawOffRank])
	if rank > arrayruntime.MaxRank {
		return nil, errors.OutOfRange(errors.PhaseLayout, "rank", int64(rank), 0, arrayruntime.MaxRank)
	}
	if len(buf) < rawHeaderBytes+rank*rawDimBytes {
		return nil, errors.InvalidData(errors.PhaseLayout, "raw descriptor truncated dimension table")
	}

	d := &Descriptor{
		elementBytes: binary.NativeEndian.Uint64(buf[rawOffElemLen:]),
		attr:         Attribute(buf[rawOffAttribute]),
		rank:         rank,
		dims:         make([]Dimension, rank),
	}

	off := rawHeaderBytes
	for j := 0; j < rank; j++ {
		d.dims[j] = Dimension{
			lowerBound: int64(binary.NativeEndian.Uint64(buf[off:])),
			extent:     int64(binary.NativeEndian.Uint64(buf[off+8:])),
			byteStride: int64(binary.NativeEndian.Uint64(buf[off+16:])),
		}
		off += rawDimBytes
	}

	code := int8(buf[rawOffType])
	if buf[rawOffExtra]&rawExtraAddendum != 0 {
		if code != rawTypeDerived {
			return nil, errors.InvalidData(errors.PhaseLayout, "addendum on intrinsic type code")
		}
		if len(buf) < off+16 {
			return nil, errors.InvalidData(errors.PhaseLayout, "raw descriptor truncated addendum")
		}
		derived := (*DerivedType)(unsafe.Pointer(uintptr(binary.NativeEndian.Uint64(buf[off:]))))
		if derived == nil {
			return nil, errors.InvalidData(errors.PhaseLayout, "addendum with null derived-type handle")
		}
		a := newAddendum(derived)
		a.flags = Flags(binary.NativeEndian.Uint64(buf[off+8:]))
		off += 16
		if len(buf) < off+8*len(a.lenParams) {
			return nil, errors.InvalidData(errors.PhaseLayout, "raw descriptor truncated length parameters")
		}
		for j := range a.lenParams {
			a.lenParams[j] = int64(binary.NativeEndian.Uint64(buf[off:]))
			off += 8
		}
		d.typ = Derived{Type: derived}
		d.addendum = a
	} else {
		typ, err := elemTypeFromRaw(code)
		if err != nil {
			return nil, err
		}
		d.typ = typ
	}

	if base := binary.NativeEndian.Uint64(buf[rawOffBase:]); base != 0 {
		bytes, ok := safeMulU64(d.Elements(), d.elementBytes)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseLayout, "raw descriptor size overflow")
		}
		d.data = unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), bytes)
		d.allocated = true
	}
	return d, nil
}

func rawTypeCode(t ElemType) (int8, error) {
	switch tt := t.(type) {
	case Derived:
		return rawTypeDerived, nil
	case Intrinsic:
		type key struct {
			cat   Category
			bytes uint64
		}
		codes := map[key]int8{
			{CatInteger, 1}: rawTypeInt8,
			{CatInteger, 2}: rawTypeInt16,
			{CatInteger, 4}: rawTypeInt32,
			{CatInteger, 8}: rawTypeInt64,
			{CatReal, 4}:    rawTypeReal32,
			{CatReal, 8}:    rawTypeReal64,
			{CatLogical, 1}: rawTypeLogical8,
			{CatLogical, 2}: rawTypeLogical16,
			{CatLogical, 4}: rawTypeLogical32,
			{CatLogical, 8}: rawTypeLogical64,
			{CatCharacter, 1}: rawTypeChar8,
			{CatCharacter, 2}: rawTypeChar16,
			{CatCharacter, 4}: rawTypeChar32,
		}
		if code, ok := codes[key{tt.Cat, tt.Bytes}]; ok {
			return code, nil
		}
		return 0, errors.New(errors.PhaseLayout, errors.KindTypeMismatch).
			Detail("no interop code for %s", tt).
			Build()
	default:
		return 0, errors.InvalidData(errors.PhaseLayout, "unknown element type")
	}
}

func elemTypeFromRaw(code int8) (ElemType, error) {
	types := map[int8]Intrinsic{
		rawTypeInt8:      {CatInteger, 1},
		rawTypeInt16:     {CatInteger, 2},
		rawTypeInt32:     {CatInteger, 4},
		rawTypeInt64:     {CatInteger, 8},
		rawTypeReal32:    {CatReal, 4},
		rawTypeReal64:    {CatReal, 8},
		rawTypeLogical8:  {CatLogical, 1},
		rawTypeLogical16: {CatLogical, 2},
		rawTypeLogical32: {CatLogical, 4},
		rawTypeLogical64: {CatLogical, 8},
		rawTypeChar8:     {CatCharacter, 1},
		rawTypeChar16:    {CatCharacter, 2},
		rawTypeChar32:    {CatCharacter, 4},
	}
	if t, ok := types[code]; ok {
		return t, nil
	}
	return nil, errors.New(errors.PhaseLayout, errors.KindInvalidData).
		Value(code).
		Detail("unknown type code %d", code).
		Build()
}
