// Package arrayruntime is the runtime support library for the Vex array
// language. Compiler-generated code calls into it to execute the
// transformational array intrinsics against type-erased, rank-polymorphic
// array descriptors, so the compiler never has to specialize per element
// type, rank, or array attribute.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	arrayruntime/        Root package with SubscriptValue, MaxRank, and the Allocator contract
//	├── descriptor/      Type-erased array descriptors, addenda, and the raw interop layout
//	├── transform/       Transformational intrinsics (reshape) over descriptors
//	├── errors/          Structured diagnostic types for fatal violations
//	└── cmd/reshape/     CLI and interactive explorer for driving the intrinsics
//
// # Quick Start
//
// Build a source array and reshape it:
//
//	src := descriptor.New(descriptor.Intrinsic{Cat: descriptor.CatInteger, Bytes: 8},
//	    8, 1, []arrayruntime.SubscriptValue{6}, descriptor.AttrAllocatable)
//	if err := src.Allocate(nil, nil, 0); err != nil {
//	    arrayruntime.Crash(err)
//	}
//	// ... fill src ...
//
//	shape := descriptor.FromInt64s([]int64{2, 3})
//	result := transform.Reshape(src, shape, nil, nil)
//	defer result.Destroy()
//
// # Failure Semantics
//
// Malformed arguments are contract violations, not recoverable errors: a
// well-formed program cannot produce them, so the library terminates via
// Crash with a structured diagnostic instead of returning an error value.
// The only genuine runtime failure is storage exhaustion during result
// allocation, which is also fatal.
//
// # Interop
//
// Descriptors are layout-compatible with the standardized C array descriptor
// used across language boundaries; see the descriptor package for the raw
// encoding.
package arrayruntime
