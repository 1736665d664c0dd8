package descriptor

import "fmt"

// Category classifies a descriptor's element type.
type Category uint8

const (
	CatInteger Category = iota
	CatReal
	CatLogical
	CatCharacter
	CatDerived
)

var catNames = [...]string{
	CatInteger:   "integer",
	CatReal:      "real",
	CatLogical:   "logical",
	CatCharacter: "character",
	CatDerived:   "derived",
}

func (c Category) String() string {
	if int(c) < len(catNames) {
		return catNames[c]
	}
	return "unknown"
}

// ElemType is the element type of a descriptor: either an Intrinsic
// category with a kind width, or a Derived reference to user-defined
// aggregate metadata. The sum is closed; consumers switch over the two
// cases exhaustively.
type ElemType interface {
	Category() Category
	String() string
	elemType()
}

// Intrinsic is a primitive element type. Bytes is the kind width of the
// type, not necessarily the element storage size (character elements store
// Bytes per code unit times their length).
type Intrinsic struct {
	Cat   Category
	Bytes uint64
}

func (t Intrinsic) Category() Category { return t.Cat }

func (t Intrinsic) String() string {
	return fmt.Sprintf("%s(%d)", t.Cat, t.Bytes)
}

func (Intrinsic) elemType() {}

// Derived is a user-defined aggregate element type. The referenced
// DerivedType metadata is shared and never owned by a descriptor.
type Derived struct {
	Type *DerivedType
}

func (Derived) Category() Category { return CatDerived }

func (t Derived) String() string {
	if t.Type == nil {
		return "derived(?)"
	}
	return "derived(" + t.Type.Name() + ")"
}

func (Derived) elemType() {}

// Attribute governs storage ownership. The numbering matches the interop
// binding and must not change.
type Attribute uint8

const (
	AttrPointer Attribute = iota
	AttrAllocatable
	AttrOther
)

var attrNames = [...]string{
	AttrPointer:     "pointer",
	AttrAllocatable: "allocatable",
	AttrOther:       "other",
}

func (a Attribute) String() string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return "unknown"
}
