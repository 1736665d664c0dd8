package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the violation was detected
type Phase string

const (
	PhaseValidate Phase = "validate" // argument well-formedness checks
	PhaseDecode   Phase = "decode"   // reading runtime-typed integers
	PhaseAllocate Phase = "allocate" // result descriptor and storage creation
	PhasePopulate Phase = "populate" // element copy loops
	PhaseLayout   Phase = "layout"   // raw interop descriptor encoding
)

// Kind categorizes the violation
type Kind string

const (
	KindRankMismatch       Kind = "rank_mismatch"
	KindTypeMismatch       Kind = "type_mismatch"
	KindOutOfRange         Kind = "out_of_range"
	KindNotPermutation     Kind = "not_permutation"
	KindInsufficientSource Kind = "insufficient_source"
	KindAllocation         Kind = "allocation"
	KindUnsupportedWidth   Kind = "unsupported_width"
	KindInvalidData        Kind = "invalid_data"
)

// Error is the structured diagnostic type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Arg    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Arg != "" {
		b.WriteString(" in ")
		b.WriteString(e.Arg)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Arg names the intrinsic argument the violation was found in
func (b *Builder) Arg(name string) *Builder {
	b.err.Arg = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common violation patterns

// RankMismatch reports an argument whose rank differs from the required rank
func RankMismatch(phase Phase, arg string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRankMismatch,
		Arg:    arg,
		Detail: fmt.Sprintf("rank %d, need rank %d", got, want),
		Value:  got,
	}
}

// TypeMismatch reports an argument of the wrong element category
func TypeMismatch(phase Phase, arg, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Arg:    arg,
		Detail: fmt.Sprintf("element type %s, need %s", got, want),
	}
}

// OutOfRange reports a value outside its permitted interval
func OutOfRange(phase Phase, arg string, value, lo, hi int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Arg:    arg,
		Detail: fmt.Sprintf("value %d outside [%d, %d]", value, lo, hi),
		Value:  value,
	}
}

// NotPermutation reports a dimension-order vector that is not a permutation
func NotPermutation(arg string, value int64) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindNotPermutation,
		Arg:    arg,
		Detail: fmt.Sprintf("value %d duplicated or out of range", value),
		Value:  value,
	}
}

// InsufficientSource reports too few source elements with no usable pad
func InsufficientSource(need, have uint64) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInsufficientSource,
		Detail: fmt.Sprintf("result needs %d elements, source supplies %d and PAD is absent or empty", need, have),
		Value:  need,
	}
}

// AllocationFailed reports a storage allocation failure with its status code
func AllocationFailed(bytes uint64, status int, cause error) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (status %d)", bytes, status),
		Value:  status,
		Cause:  cause,
	}
}

// UnsupportedWidth reports an integer byte width outside {1,2,4,8}
func UnsupportedWidth(width uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupportedWidth,
		Detail: fmt.Sprintf("no integer kind has %d bytes", width),
		Value:  width,
	}
}

// SubscriptOutOfBounds reports an element access outside a dimension's bounds
func SubscriptOutOfBounds(dim int, value, lower, extent int64) *Error {
	return &Error{
		Phase:  PhasePopulate,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("subscript %d for dimension %d outside [%d, %d)", value, dim+1, lower, lower+extent),
		Value:  value,
	}
}

// InvalidData reports malformed descriptor contents
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
