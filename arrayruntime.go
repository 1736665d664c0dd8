package arrayruntime

// SubscriptValue is one coordinate of a multidimensional index. Signed and
// word-sized; together with a descriptor's rank a vector of these identifies
// a single array element.
type SubscriptValue = int64

// MaxRank is the process-wide upper bound on array dimensionality. Every
// descriptor, subscript vector, and dimension-order vector is sized against
// it.
const MaxRank = 15

// Allocator provides backing storage for descriptor data. Implementations
// must be safe for independent concurrent allocations.
type Allocator interface {
	Allocate(bytes uint64) ([]byte, error)
	Deallocate(data []byte)
}

// HeapAllocator is the default Allocator, backed by the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(bytes uint64) ([]byte, error) {
	return make([]byte, bytes), nil
}

// Deallocate is a no-op; storage is reclaimed by the garbage collector once
// the owning descriptor drops it.
func (HeapAllocator) Deallocate([]byte) {}

// Crash reports an unrecoverable runtime violation and never returns.
// Violations indicate a defect upstream of this layer (non-conforming
// compiler output or corrupted descriptors), so they are not surfaced as
// recoverable errors.
func Crash(err error) {
	panic(err)
}
