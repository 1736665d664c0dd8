package transform

import (
	"go.uber.org/zap"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/descriptor"
	"github.com/vexlang/array-runtime/errors"
	"github.com/vexlang/array-runtime/transform/internal/load"
)

func crash(err error) {
	Logger().Error("fatal runtime violation", zap.Error(err))
	arrayruntime.Crash(err)
}

// Reshape constructs a freshly allocated array holding source's elements
// rearranged to the shape given by the rank-1 integer array shape. When the
// new shape needs more elements than source supplies, pad provides the rest,
// cycling as needed. order, when present, is a permutation of 1..rank of the
// result choosing which result dimension varies fastest during population.
// The caller owns the result and must release it through Destroy.
//
// Malformed arguments and allocation failure terminate the process; see the
// package documentation.
func Reshape(source, shape, pad, order *descriptor.Descriptor) *descriptor.Descriptor {
	// Compute and check the rank of the result.
	if shape.Rank() != 1 {
		crash(errors.RankMismatch(errors.PhaseValidate, "SHAPE", shape.Rank(), 1))
	}
	if shape.Type().Category() != descriptor.CatInteger {
		crash(errors.TypeMismatch(errors.PhaseValidate, "SHAPE", shape.Type().String(), "integer"))
	}
	resultRank := int(shape.Dimension(0).Extent())
	if resultRank < 0 || resultRank > arrayruntime.MaxRank {
		crash(errors.OutOfRange(errors.PhaseValidate, "SHAPE", int64(resultRank), 0, arrayruntime.MaxRank))
	}

	// Extract and check the shape of the result; compute its element count.
	var lowerBound [arrayruntime.MaxRank]arrayruntime.SubscriptValue
	var resultExtent [arrayruntime.MaxRank]arrayruntime.SubscriptValue
	shapeElementBytes := shape.ElementBytes()
	resultElements := uint64(1)
	shapeSubscript := []arrayruntime.SubscriptValue{shape.Dimension(0).LowerBound()}
	for j := 0; j < resultRank; j++ {
		lowerBound[j] = 1
		extent := load.Int64(shape.Element(shapeSubscript), shapeElementBytes)
		if extent < 0 {
			crash(errors.New(errors.PhaseValidate, errors.KindOutOfRange).
				Arg("SHAPE").
				Value(extent).
				Detail("extent %d of result dimension %d is negative", extent, j+1).
				Build())
		}
		resultExtent[j] = extent
		resultElements *= uint64(extent)
		shapeSubscript[0]++
	}

	// Check that SOURCE= supplies enough elements, or that PAD= is present,
	// nonempty, and element-size compatible.
	elementBytes := source.ElementBytes()
	sourceElements := source.Elements()
	var padElements uint64
	if pad != nil {
		padElements = pad.Elements()
	}
	if resultElements > sourceElements {
		if padElements == 0 {
			crash(errors.InsufficientSource(resultElements, sourceElements))
		}
		if pad.ElementBytes() != elementBytes {
			crash(errors.TypeMismatch(errors.PhaseValidate, "PAD",
				pad.Type().String(), source.Type().String()))
		}
	}

	// Extract and check the optional ORDER= argument, which must be a
	// permutation of [1..resultRank].
	var dimOrder [arrayruntime.MaxRank]int
	if order != nil {
		if order.Rank() != 1 {
			crash(errors.RankMismatch(errors.PhaseValidate, "ORDER", order.Rank(), 1))
		}
		if order.Type().Category() != descriptor.CatInteger {
			crash(errors.TypeMismatch(errors.PhaseValidate, "ORDER", order.Type().String(), "integer"))
		}
		if int(order.Dimension(0).Extent()) != resultRank {
			crash(errors.New(errors.PhaseValidate, errors.KindRankMismatch).
				Arg("ORDER").
				Detail("extent %d, need %d (rank of the result)", order.Dimension(0).Extent(), resultRank).
				Build())
		}
		orderElementBytes := order.ElementBytes()
		var values uint16
		orderSubscript := []arrayruntime.SubscriptValue{order.Dimension(0).LowerBound()}
		for j := 0; j < resultRank; j++ {
			k := load.Int64(order.Element(orderSubscript), orderElementBytes)
			if k < 1 || k > int64(resultRank) || values&(1<<(k-1)) != 0 {
				crash(errors.NotPermutation("ORDER", k))
			}
			values |= 1 << (k - 1)
			dimOrder[k-1] = j
			orderSubscript[0]++
		}
	} else {
		for j := 0; j < resultRank; j++ {
			dimOrder[j] = j
		}
	}

	Logger().Debug("reshape",
		zap.Int("sourceRank", source.Rank()),
		zap.Int("resultRank", resultRank),
		zap.Uint64("sourceElements", sourceElements),
		zap.Uint64("resultElements", resultElements),
		zap.Bool("pad", pad != nil),
		zap.Bool("order", order != nil))

	// Create the result's descriptor, propagating derived-type metadata and
	// length parameters from the source.
	var result *descriptor.Descriptor
	switch t := source.Type().(type) {
	case descriptor.Derived:
		result = descriptor.New(t, elementBytes, resultRank,
			resultExtent[:resultRank], descriptor.AttrAllocatable)
		resultAddendum := result.Addendum()
		sourceAddendum := source.Addendum()
		// Population below is a raw byte copy of already-initialized
		// elements; default finalize-then-overwrite semantics must not fire.
		resultAddendum.SetFlags(resultAddendum.Flags() | descriptor.NoFinalize)
		for j := 0; j < t.Type.LenParameters(); j++ {
			resultAddendum.SetLenParameterValue(j, sourceAddendum.LenParameterValue(j))
		}
	case descriptor.Intrinsic:
		result = descriptor.New(t, elementBytes, resultRank,
			resultExtent[:resultRank], descriptor.AttrAllocatable)
	}

	// Allocate storage for the result's data.
	if err := result.Allocate(lowerBound[:resultRank], resultExtent[:resultRank], elementBytes); err != nil {
		crash(err)
	}

	// Populate the result's elements.
	var resultSubscript [arrayruntime.MaxRank]arrayruntime.SubscriptValue
	result.LowerBounds(resultSubscript[:resultRank])
	sourceSubscript := make([]arrayruntime.SubscriptValue, source.Rank())
	source.LowerBounds(sourceSubscript)
	resultElement := uint64(0)
	elementsFromSource := min(resultElements, sourceElements)
	for ; resultElement < elementsFromSource; resultElement++ {
		copy(result.Element(resultSubscript[:resultRank]), source.Element(sourceSubscript))
		source.IncrementSubscripts(sourceSubscript)
		result.IncrementSubscriptsInOrder(resultSubscript[:resultRank], dimOrder[:resultRank])
	}
	if resultElement < resultElements {
		// Remaining elements come from the PAD= argument, replicated
		// cyclically: its odometer wraps to the lower bounds on overrun.
		padSubscript := make([]arrayruntime.SubscriptValue, pad.Rank())
		pad.LowerBounds(padSubscript)
		for ; resultElement < resultElements; resultElement++ {
			copy(result.Element(resultSubscript[:resultRank]), pad.Element(padSubscript))
			pad.IncrementSubscripts(padSubscript)
			result.IncrementSubscriptsInOrder(resultSubscript[:resultRank], dimOrder[:resultRank])
		}
	}

	return result
}
