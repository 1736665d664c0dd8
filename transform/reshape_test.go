package transform

import (
	"encoding/binary"
	"fmt"
	"testing"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/descriptor"
	"github.com/vexlang/array-runtime/errors"
)

func expectCrash(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal violation")
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("crash carried %T, want *errors.Error", r)
		}
		if err.Kind != kind {
			t.Errorf("kind: got %s, want %s", err.Kind, kind)
		}
	}()
	fn()
}

// flatten reads an integer(8) array in natural order, dimension 0 fastest.
func flatten(d *descriptor.Descriptor) []int64 {
	subscript := make([]arrayruntime.SubscriptValue, d.Rank())
	d.LowerBounds(subscript)
	out := make([]int64, 0, d.Elements())
	for n := d.Elements(); n > 0; n-- {
		out = append(out, int64(binary.NativeEndian.Uint64(d.Element(subscript))))
		d.IncrementSubscripts(subscript)
	}
	return out
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReshapeNaturalOrder(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 3})
	defer shape.Destroy()

	result := Reshape(source, shape, nil, nil)
	defer result.Destroy()

	if result.Rank() != 2 {
		t.Fatalf("rank: got %d, want 2", result.Rank())
	}
	for j, want := range []int64{2, 3} {
		dim := result.Dimension(j)
		if dim.LowerBound() != 1 {
			t.Errorf("dimension %d lower bound: got %d, want 1", j, dim.LowerBound())
		}
		if dim.Extent() != want {
			t.Errorf("dimension %d extent: got %d, want %d", j, dim.Extent(), want)
		}
	}
	if result.Attribute() != descriptor.AttrAllocatable {
		t.Errorf("attribute: got %s, want allocatable", result.Attribute())
	}
	if got := flatten(result); !equal(got, []int64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("contents: got %v", got)
	}

	// result[2,1] is the second element in natural order
	b := result.Element([]arrayruntime.SubscriptValue{2, 1})
	if got := int64(binary.NativeEndian.Uint64(b)); got != 2 {
		t.Errorf("result[2,1]: got %d, want 2", got)
	}
}

func TestReshapeWithPad(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 3})
	defer shape.Destroy()
	pad := descriptor.FromInt64s([]int64{9, 9})
	defer pad.Destroy()

	result := Reshape(source, shape, pad, nil)
	defer result.Destroy()

	if got := flatten(result); !equal(got, []int64{1, 2, 3, 4, 9, 9}) {
		t.Errorf("contents: got %v", got)
	}
}

func TestReshapePadCycles(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{6})
	defer shape.Destroy()
	pad := descriptor.FromInt64s([]int64{7, 8})
	defer pad.Destroy()

	result := Reshape(source, shape, pad, nil)
	defer result.Destroy()

	// pad is shorter than the deficit and replicates cyclically
	if got := flatten(result); !equal(got, []int64{1, 2, 7, 8, 7, 8}) {
		t.Errorf("contents: got %v", got)
	}
}

func TestReshapeWithOrder(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 3})
	defer shape.Destroy()
	order := descriptor.FromInt64s([]int64{2, 1})
	defer order.Destroy()

	result := Reshape(source, shape, nil, order)
	defer result.Destroy()

	// dimension 2 was populated fastest: result[1,j] = j, result[2,j] = 3+j
	if got := flatten(result); !equal(got, []int64{1, 4, 2, 5, 3, 6}) {
		t.Errorf("contents: got %v", got)
	}
}

func TestReshapeIdentityOrderMatchesNoOrder(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6, 7, 8})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 2, 2})
	defer shape.Destroy()
	order := descriptor.FromInt64s([]int64{1, 2, 3})
	defer order.Destroy()

	plain := Reshape(source, shape, nil, nil)
	defer plain.Destroy()
	explicit := Reshape(source, shape, nil, order)
	defer explicit.Destroy()

	if !equal(flatten(plain), flatten(explicit)) {
		t.Errorf("identity order differs: %v vs %v", flatten(plain), flatten(explicit))
	}
}

func TestReshapeShapeWidths(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()

	for _, width := range []uint64{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("width_%d", width), func(t *testing.T) {
			shape := descriptor.FromIntegers(width, []int64{3, 2})
			defer shape.Destroy()

			result := Reshape(source, shape, nil, nil)
			defer result.Destroy()

			if result.Dimension(0).Extent() != 3 || result.Dimension(1).Extent() != 2 {
				t.Errorf("extents: got [%d %d], want [3 2]",
					result.Dimension(0).Extent(), result.Dimension(1).Extent())
			}
			if got := flatten(result); !equal(got, []int64{1, 2, 3, 4, 5, 6}) {
				t.Errorf("contents: got %v", got)
			}
		})
	}
}

func TestReshapeRankTwoSource(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()
	toMatrix := descriptor.FromInt64s([]int64{3, 2})
	defer toMatrix.Destroy()
	toVector := descriptor.FromInt64s([]int64{6})
	defer toVector.Destroy()

	matrix := Reshape(source, toMatrix, nil, nil)
	defer matrix.Destroy()
	back := Reshape(matrix, toVector, nil, nil)
	defer back.Destroy()

	// natural order flattening is the inverse of natural order population
	if got := flatten(back); !equal(got, []int64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("round trip: got %v", got)
	}
}

func TestReshapeToScalar(t *testing.T) {
	source := descriptor.FromInt64s([]int64{42, 43})
	defer source.Destroy()
	shape := descriptor.FromInt64s(nil)
	defer shape.Destroy()

	result := Reshape(source, shape, nil, nil)
	defer result.Destroy()

	if result.Rank() != 0 || result.Elements() != 1 {
		t.Fatalf("rank %d elements %d, want scalar", result.Rank(), result.Elements())
	}
	if got := flatten(result); !equal(got, []int64{42}) {
		t.Errorf("contents: got %v", got)
	}
}

func TestReshapeZeroExtent(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{0, 5})
	defer shape.Destroy()

	// zero result elements never needs a pad
	result := Reshape(source, shape, nil, nil)
	defer result.Destroy()

	if result.Elements() != 0 {
		t.Errorf("elements: got %d, want 0", result.Elements())
	}
	if result.Dimension(1).Extent() != 5 {
		t.Errorf("extent 1: got %d, want 5", result.Dimension(1).Extent())
	}
}

func TestReshapeRejectsMalformedShape(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()

	t.Run("shape_not_rank1", func(t *testing.T) {
		vector := descriptor.FromInt64s([]int64{2, 3})
		defer vector.Destroy()
		matrixShape := descriptor.FromInt64s([]int64{2, 1})
		defer matrixShape.Destroy()
		matrix := Reshape(vector, matrixShape, nil, nil)
		defer matrix.Destroy()
		expectCrash(t, errors.KindRankMismatch, func() {
			Reshape(source, matrix, nil, nil)
		})
	})

	t.Run("shape_not_integer", func(t *testing.T) {
		real8 := descriptor.New(descriptor.Intrinsic{Cat: descriptor.CatReal, Bytes: 8}, 8, 1,
			[]arrayruntime.SubscriptValue{2}, descriptor.AttrAllocatable)
		if err := real8.Allocate(nil, nil, 0); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		defer real8.Destroy()
		expectCrash(t, errors.KindTypeMismatch, func() {
			Reshape(source, real8, nil, nil)
		})
	})

	t.Run("negative_extent", func(t *testing.T) {
		shape := descriptor.FromInt64s([]int64{-2, 3})
		defer shape.Destroy()
		expectCrash(t, errors.KindOutOfRange, func() {
			Reshape(source, shape, nil, nil)
		})
	})
}

func TestReshapeRejectsMissingPad(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 3})
	defer shape.Destroy()

	t.Run("absent", func(t *testing.T) {
		expectCrash(t, errors.KindInsufficientSource, func() {
			Reshape(source, shape, nil, nil)
		})
	})

	t.Run("empty", func(t *testing.T) {
		pad := descriptor.FromInt64s(nil)
		defer pad.Destroy()
		expectCrash(t, errors.KindInsufficientSource, func() {
			Reshape(source, shape, pad, nil)
		})
	})

	t.Run("wrong_element_size", func(t *testing.T) {
		pad := descriptor.FromIntegers(4, []int64{9, 9})
		defer pad.Destroy()
		expectCrash(t, errors.KindTypeMismatch, func() {
			Reshape(source, shape, pad, nil)
		})
	})
}

func TestReshapeRejectsMalformedOrder(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1, 2, 3, 4, 5, 6})
	defer source.Destroy()
	shape := descriptor.FromInt64s([]int64{2, 3})
	defer shape.Destroy()

	badOrders := []struct {
		name   string
		values []int64
	}{
		{"duplicate", []int64{1, 1}},
		{"below_range", []int64{0, 1}},
		{"above_range", []int64{1, 3}},
		{"all_out_of_range", []int64{7, 8}},
	}
	for _, tt := range badOrders {
		t.Run(tt.name, func(t *testing.T) {
			order := descriptor.FromInt64s(tt.values)
			defer order.Destroy()
			expectCrash(t, errors.KindNotPermutation, func() {
				Reshape(source, shape, nil, order)
			})
		})
	}

	t.Run("wrong_extent", func(t *testing.T) {
		order := descriptor.FromInt64s([]int64{1, 2, 3})
		defer order.Destroy()
		expectCrash(t, errors.KindRankMismatch, func() {
			Reshape(source, shape, nil, order)
		})
	})
}

func TestReshapeDerivedTypePropagation(t *testing.T) {
	t.Run("two_len_parameters", func(t *testing.T) {
		dt := descriptor.NewDerivedType("grid_t", 16,
			descriptor.LenParameter{Name: "n"}, descriptor.LenParameter{Name: "m"})
		source := descriptor.New(descriptor.Derived{Type: dt}, 0, 1,
			[]arrayruntime.SubscriptValue{4}, descriptor.AttrAllocatable)
		if err := source.Allocate(nil, nil, 0); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		defer source.Destroy()
		source.Addendum().SetLenParameterValue(0, 10)
		source.Addendum().SetLenParameterValue(1, 20)

		shape := descriptor.FromInt64s([]int64{2, 2})
		defer shape.Destroy()

		result := Reshape(source, shape, nil, nil)
		defer result.Destroy()

		typ, ok := result.Type().(descriptor.Derived)
		if !ok || typ.Type != dt {
			t.Fatalf("result type: got %v, want derived(grid_t)", result.Type())
		}
		a := result.Addendum()
		if a.LenParameterValue(0) != 10 || a.LenParameterValue(1) != 20 {
			t.Errorf("len params: got %d, %d, want 10, 20",
				a.LenParameterValue(0), a.LenParameterValue(1))
		}
		if a.Flags()&descriptor.NoFinalize == 0 {
			t.Error("result addendum missing NoFinalize")
		}
	})

	t.Run("zero_len_parameters", func(t *testing.T) {
		dt := descriptor.NewDerivedType("pair_t", 16)
		source := descriptor.New(descriptor.Derived{Type: dt}, 0, 1,
			[]arrayruntime.SubscriptValue{2}, descriptor.AttrAllocatable)
		if err := source.Allocate(nil, nil, 0); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		defer source.Destroy()

		shape := descriptor.FromInt64s([]int64{2, 1})
		defer shape.Destroy()

		result := Reshape(source, shape, nil, nil)
		defer result.Destroy()

		if typ, ok := result.Type().(descriptor.Derived); !ok || typ.Type != dt {
			t.Fatalf("result type: got %v", result.Type())
		}
	})
}

func TestReshapeDerivedElementBytes(t *testing.T) {
	dt := descriptor.NewDerivedType("cell_t", 24)
	source := descriptor.New(descriptor.Derived{Type: dt}, 0, 1,
		[]arrayruntime.SubscriptValue{6}, descriptor.AttrAllocatable)
	if err := source.Allocate(nil, nil, 0); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer source.Destroy()

	// mark each element's first byte so the copy is observable
	subscript := make([]arrayruntime.SubscriptValue, 1)
	source.LowerBounds(subscript)
	for i := 0; i < 6; i++ {
		source.Element(subscript)[0] = byte(i + 1)
		source.IncrementSubscripts(subscript)
	}

	shape := descriptor.FromInt64s([]int64{3, 2})
	defer shape.Destroy()
	result := Reshape(source, shape, nil, nil)
	defer result.Destroy()

	if result.ElementBytes() != 24 {
		t.Fatalf("element bytes: got %d, want 24", result.ElementBytes())
	}
	b := result.Element([]arrayruntime.SubscriptValue{2, 2})
	if b[0] != 5 {
		t.Errorf("result[2,2] marker: got %d, want 5", b[0])
	}
}

func TestReshapeConservation(t *testing.T) {
	source := descriptor.FromInt64s([]int64{1})
	defer source.Destroy()
	pad := descriptor.FromInt64s([]int64{0})
	defer pad.Destroy()

	shapes := [][]int64{{1}, {4}, {2, 2}, {1, 1, 8}, {3, 0, 9}}
	for _, extents := range shapes {
		shape := descriptor.FromInt64s(extents)
		result := Reshape(source, shape, pad, nil)

		want := uint64(1)
		for _, e := range extents {
			want *= uint64(e)
		}
		if got := result.Elements(); got != want {
			t.Errorf("shape %v: elements %d, want %d", extents, got, want)
		}
		result.Destroy()
		shape.Destroy()
	}
}
