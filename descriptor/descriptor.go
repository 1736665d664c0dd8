package descriptor

import (
	"encoding/binary"
	"math"

	"go.uber.org/zap"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/errors"
)

// Allocation status codes carried inside allocation diagnostics. The
// numbering matches the interop binding.
const (
	StatusOK           = 0
	StatusOutOfMemory  = 1
	StatusSizeOverflow = 2
)

var alloc arrayruntime.Allocator = arrayruntime.HeapAllocator{}

// SetAllocator replaces the storage allocator for all descriptors.
// This must be called before any descriptor is allocated.
func SetAllocator(a arrayruntime.Allocator) {
	alloc = a
}

// Dimension is one entry of a descriptor's shape table.
type Dimension struct {
	lowerBound arrayruntime.SubscriptValue
	extent     arrayruntime.SubscriptValue
	byteStride arrayruntime.SubscriptValue
}

// LowerBound returns the dimension's lower bound.
func (d Dimension) LowerBound() arrayruntime.SubscriptValue { return d.lowerBound }

// Extent returns the dimension's element count.
func (d Dimension) Extent() arrayruntime.SubscriptValue { return d.extent }

// UpperBound returns the last valid subscript, lowerBound+extent-1.
func (d Dimension) UpperBound() arrayruntime.SubscriptValue {
	return d.lowerBound + d.extent - 1
}

// ByteStride returns the distance in bytes between successive elements
// along this dimension.
func (d Dimension) ByteStride() arrayruntime.SubscriptValue { return d.byteStride }

// Descriptor is a type-erased handle to one array object: element type and
// size, rank, per-dimension bounds, storage, and ownership attribute.
type Descriptor struct {
	typ          ElemType
	elementBytes uint64
	attr         Attribute
	rank         int
	dims         []Dimension
	data         []byte
	addendum     *Addendum
	allocated    bool
}

// New creates a descriptor with the given element type, shape, and
// attribute but no storage. Lower bounds default to 1. If typ is Derived an
// Addendum is attached with one slot per declared length parameter; a zero
// elementBytes then defaults to the derived type's storage size.
func New(typ ElemType, elementBytes uint64, rank int, extents []arrayruntime.SubscriptValue, attr Attribute) *Descriptor {
	if rank < 0 || rank > arrayruntime.MaxRank {
		arrayruntime.Crash(errors.OutOfRange(errors.PhaseValidate, "rank",
			int64(rank), 0, arrayruntime.MaxRank))
	}
	if len(extents) < rank {
		arrayruntime.Crash(errors.InvalidData(errors.PhaseValidate,
			"fewer extents than rank"))
	}

	d := &Descriptor{
		typ:          typ,
		elementBytes: elementBytes,
		attr:         attr,
		rank:         rank,
		dims:         make([]Dimension, rank),
	}
	for j := 0; j < rank; j++ {
		if extents[j] < 0 {
			arrayruntime.Crash(errors.OutOfRange(errors.PhaseValidate, "extent",
				extents[j], 0, math.MaxInt64))
		}
		d.dims[j] = Dimension{lowerBound: 1, extent: extents[j]}
	}
	if t, ok := typ.(Derived); ok {
		if d.elementBytes == 0 {
			d.elementBytes = t.Type.ByteSize()
		}
		d.addendum = newAddendum(t.Type)
	}
	d.computeStrides()
	return d
}

// Rank returns the number of dimensions; 0 is a scalar.
func (d *Descriptor) Rank() int { return d.rank }

// ElementBytes returns the storage size of one element.
func (d *Descriptor) ElementBytes() uint64 { return d.elementBytes }

// Type returns the element type.
func (d *Descriptor) Type() ElemType { return d.typ }

// Attribute returns the storage ownership attribute.
func (d *Descriptor) Attribute() Attribute { return d.attr }

// Addendum returns the derived-type metadata block, or nil for intrinsic
// element types.
func (d *Descriptor) Addendum() *Addendum { return d.addendum }

// Dimension returns the shape table entry for 0-indexed dimension i.
func (d *Descriptor) Dimension(i int) Dimension { return d.dims[i] }

// Elements returns the total element count, the product of all extents.
// A scalar has one element.
func (d *Descriptor) Elements() uint64 {
	n := uint64(1)
	for j := 0; j < d.rank; j++ {
		n *= uint64(d.dims[j].extent)
	}
	return n
}

// LowerBounds fills out with each dimension's lower bound, initializing a
// subscript vector for iteration. out must have at least rank entries.
func (d *Descriptor) LowerBounds(out []arrayruntime.SubscriptValue) {
	for j := 0; j < d.rank; j++ {
		out[j] = d.dims[j].lowerBound
	}
}

// Element returns the storage of the element at the given subscript vector.
// Subscripts must lie within [lowerBound, lowerBound+extent) per dimension.
func (d *Descriptor) Element(subscripts []arrayruntime.SubscriptValue) []byte {
	if d.data == nil {
		arrayruntime.Crash(errors.InvalidData(errors.PhasePopulate,
			"element access on unallocated descriptor"))
	}
	var offset uint64
	for j := 0; j < d.rank; j++ {
		dim := d.dims[j]
		if subscripts[j] < dim.lowerBound || subscripts[j] >= dim.lowerBound+dim.extent {
			arrayruntime.Crash(errors.SubscriptOutOfBounds(j, subscripts[j],
				dim.lowerBound, dim.extent))
		}
		offset += uint64(subscripts[j]-dim.lowerBound) * uint64(dim.byteStride)
	}
	return d.data[offset : offset+d.elementBytes : offset+d.elementBytes]
}

// IncrementSubscripts advances subscripts to the next element in natural
// order: dimension 0 varies fastest and carries into slower dimensions,
// wrapping back to the lower bounds after the last element.
func (d *Descriptor) IncrementSubscripts(subscripts []arrayruntime.SubscriptValue) {
	for j := 0; j < d.rank; j++ {
		dim := d.dims[j]
		subscripts[j]++
		if subscripts[j] <= dim.UpperBound() {
			return
		}
		subscripts[j] = dim.lowerBound
	}
}

// IncrementSubscriptsInOrder advances subscripts like IncrementSubscripts
// but visits dimension dimOrder[j] at iteration step j, so dimOrder[0]
// varies fastest. dimOrder must hold each dimension index exactly once.
func (d *Descriptor) IncrementSubscriptsInOrder(subscripts []arrayruntime.SubscriptValue, dimOrder []int) {
	for j := 0; j < d.rank; j++ {
		k := dimOrder[j]
		dim := d.dims[k]
		subscripts[k]++
		if subscripts[k] <= dim.UpperBound() {
			return
		}
		subscripts[k] = dim.lowerBound
	}
}

// Allocate obtains storage for the descriptor's data. Non-nil lowerBounds
// and extents replace the shape table first; a nonzero elementBytes
// replaces the element size. The returned error is an unrecoverable
// resource-exhaustion condition carrying the allocation status.
func (d *Descriptor) Allocate(lowerBounds, extents []arrayruntime.SubscriptValue, elementBytes uint64) error {
	if d.allocated {
		return errors.InvalidData(errors.PhaseAllocate, "descriptor is already allocated")
	}
	if elementBytes != 0 {
		d.elementBytes = elementBytes
	}
	if extents != nil {
		for j := 0; j < d.rank; j++ {
			lower := arrayruntime.SubscriptValue(1)
			if lowerBounds != nil {
				lower = lowerBounds[j]
			}
			d.dims[j] = Dimension{lowerBound: lower, extent: extents[j]}
		}
	}
	d.computeStrides()

	bytes, ok := safeMulU64(d.Elements(), d.elementBytes)
	if !ok {
		return errors.AllocationFailed(math.MaxUint64, StatusSizeOverflow, nil)
	}
	data, err := alloc.Allocate(bytes)
	if err != nil {
		return errors.AllocationFailed(bytes, StatusOutOfMemory, err)
	}
	d.data = data
	d.allocated = true

	Logger().Debug("allocated descriptor storage",
		zap.Int("rank", d.rank),
		zap.Uint64("elements", d.Elements()),
		zap.Uint64("bytes", bytes))
	return nil
}

// Destroy releases storage owned by an allocatable descriptor. Derived-type
// elements are finalized first unless the addendum carries NoFinalize or
// StaticDescriptor. Safe to call on descriptors that own nothing.
func (d *Descriptor) Destroy() {
	if !d.allocated || d.attr != AttrAllocatable {
		return
	}
	if a := d.addendum; a != nil && a.flags&(NoFinalize|StaticDescriptor) == 0 {
		if fn := a.derived.finalizer; fn != nil {
			subscripts := make([]arrayruntime.SubscriptValue, d.rank)
			d.LowerBounds(subscripts)
			for n := d.Elements(); n > 0; n-- {
				fn(d.Element(subscripts))
				d.IncrementSubscripts(subscripts)
			}
		}
	}
	alloc.Deallocate(d.data)
	d.data = nil
	d.allocated = false
}

// IsAllocated reports whether the descriptor currently holds storage.
func (d *Descriptor) IsAllocated() bool { return d.allocated }

// FromIntegers builds an allocated rank-1 integer array of the given kind
// width holding values. Convenience for assembling SHAPE and ORDER
// arguments by hand.
func FromIntegers(bytes uint64, values []int64) *Descriptor {
	d := New(Intrinsic{Cat: CatInteger, Bytes: bytes}, bytes, 1,
		[]arrayruntime.SubscriptValue{int64(len(values))}, AttrAllocatable)
	if err := d.Allocate(nil, nil, 0); err != nil {
		arrayruntime.Crash(err)
	}
	subscript := make([]arrayruntime.SubscriptValue, 1)
	d.LowerBounds(subscript)
	for _, v := range values {
		storeInt64(d.Element(subscript), bytes, v)
		d.IncrementSubscripts(subscript)
	}
	return d
}

// FromInt64s builds an allocated rank-1 integer(8) array holding values.
func FromInt64s(values []int64) *Descriptor {
	return FromIntegers(8, values)
}

// column-major: dimension 0 is contiguous
func (d *Descriptor) computeStrides() {
	stride := arrayruntime.SubscriptValue(d.elementBytes)
	for j := 0; j < d.rank; j++ {
		d.dims[j].byteStride = stride
		stride *= d.dims[j].extent
	}
}

func storeInt64(b []byte, width uint64, v int64) {
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.NativeEndian.PutUint16(b, uint16(v))
	case 4:
		binary.NativeEndian.PutUint32(b, uint32(v))
	case 8:
		binary.NativeEndian.PutUint64(b, uint64(v))
	default:
		arrayruntime.Crash(errors.UnsupportedWidth(width))
	}
}

func safeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}
