package descriptor

import (
	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/errors"
)

// Flags is the addendum behavior bit set.
type Flags uint64

const (
	// StaticDescriptor marks a descriptor whose storage was not obtained
	// from the allocator and must never be released through it.
	StaticDescriptor Flags = 1 << iota

	// NoFinalize suppresses derived-type finalization when the
	// descriptor's storage is released. Set on synthetic results whose
	// elements were populated by raw byte copy from already-initialized
	// storage.
	NoFinalize
)

// Addendum is the metadata block attached to a descriptor whose element
// type is derived. It is owned exclusively by its descriptor; the
// DerivedType it references is shared.
type Addendum struct {
	derived   *DerivedType
	flags     Flags
	lenParams []arrayruntime.SubscriptValue
}

func newAddendum(derived *DerivedType) *Addendum {
	return &Addendum{
		derived:   derived,
		lenParams: make([]arrayruntime.SubscriptValue, derived.LenParameters()),
	}
}

// DerivedType returns the shared type metadata. Never nil.
func (a *Addendum) DerivedType() *DerivedType { return a.derived }

// Flags returns the behavior flags.
func (a *Addendum) Flags() Flags { return a.flags }

// SetFlags replaces the behavior flags.
func (a *Addendum) SetFlags(f Flags) { a.flags = f }

// LenParameterValue returns the runtime value of length parameter i.
func (a *Addendum) LenParameterValue(i int) arrayruntime.SubscriptValue {
	if i < 0 || i >= len(a.lenParams) {
		arrayruntime.Crash(errors.OutOfRange(errors.PhaseValidate, a.derived.Name(),
			int64(i), 0, int64(len(a.lenParams))-1))
	}
	return a.lenParams[i]
}

// SetLenParameterValue sets the runtime value of length parameter i.
func (a *Addendum) SetLenParameterValue(i int, v arrayruntime.SubscriptValue) {
	if i < 0 || i >= len(a.lenParams) {
		arrayruntime.Crash(errors.OutOfRange(errors.PhaseValidate, a.derived.Name(),
			int64(i), 0, int64(len(a.lenParams))-1))
	}
	a.lenParams[i] = v
}
