// Package descriptor implements the type-erased, rank-polymorphic array
// descriptor that compiler-generated code and the transformational
// intrinsics operate on.
//
// A Descriptor carries an element type, element byte size, rank, a
// per-dimension table of lower bound, extent, and byte stride, and the
// array's storage. Element types form a closed sum: an Intrinsic category
// with a kind width, or a Derived reference to shared DerivedType metadata.
// Descriptors with derived element types own an Addendum holding the
// runtime-resolved length-parameter values and behavior flags.
//
// Subscript iteration is mixed-radix odometer traversal: the fastest
// dimension increments on every step and carries into slower dimensions on
// overflow, wrapping back to the lower bounds after the last element.
// IncrementSubscriptsInOrder permutes which dimension varies fastest.
//
// The raw interop form of a descriptor (EncodeRaw/DecodeRaw) is
// layout-compatible with the standardized C array descriptor; compiler
// output constructs and inspects that layout directly, so its field order
// and sizes are fixed.
package descriptor
