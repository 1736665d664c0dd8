// Package errors provides the structured diagnostic types for the
// array-runtime library.
//
// Errors are categorized by Phase (where in the intrinsic the violation was
// detected) and Kind (violation category). The Error type carries the
// offending argument name, the offending value, and a cause chain.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindNotPermutation).
//		Arg("ORDER").
//		Value(k).
//		Detail("value %d used more than once", k).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RankMismatch(errors.PhaseValidate, "SHAPE", 2, 1)
//	err := errors.AllocationFailed(size, status)
//
// All errors implement the standard error interface and support
// errors.Is/As. Diagnostics built here describe contract violations and are
// handed to arrayruntime.Crash rather than returned to callers; see the
// root package for the failure semantics.
package errors
