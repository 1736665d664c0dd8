package descriptor

// LenParameter is the declaration of one derived-type length parameter.
// Opaque to the runtime core; the transformational intrinsics only count
// declarations and copy their runtime values between addenda.
type LenParameter struct {
	Name string
}

// DerivedType describes a user-defined aggregate element type. Instances
// are shared, immutable after construction, and referenced by any number of
// descriptors.
type DerivedType struct {
	name      string
	byteSize  uint64
	lenParams []LenParameter
	finalizer func(elem []byte)
}

// NewDerivedType creates derived-type metadata with the given element
// storage size and length-parameter declarations.
func NewDerivedType(name string, byteSize uint64, lenParams ...LenParameter) *DerivedType {
	return &DerivedType{
		name:      name,
		byteSize:  byteSize,
		lenParams: lenParams,
	}
}

// WithFinalizer attaches the type's finalization procedure. The runtime
// treats it as opaque: it is invoked per element when an owning descriptor
// releases storage, unless the addendum carries NoFinalize.
func (t *DerivedType) WithFinalizer(fn func(elem []byte)) *DerivedType {
	t.finalizer = fn
	return t
}

// Name returns the type name.
func (t *DerivedType) Name() string { return t.name }

// ByteSize returns the storage size of one element.
func (t *DerivedType) ByteSize() uint64 { return t.byteSize }

// LenParameters returns the number of declared length parameters.
func (t *DerivedType) LenParameters() int { return len(t.lenParams) }

// LenParameter returns the declaration of length parameter i.
func (t *DerivedType) LenParameter(i int) LenParameter { return t.lenParams[i] }
