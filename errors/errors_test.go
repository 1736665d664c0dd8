package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseValidate,
				Kind:   KindNotPermutation,
				Arg:    "ORDER",
				Detail: "value 3 duplicated or out of range",
			},
			contains: []string{"[validate]", "not_permutation", "ORDER", "value 3"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindUnsupportedWidth,
			},
			contains: []string{"[decode]", "unsupported_width"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAllocate,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[allocate]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseAllocate,
		Kind:  KindAllocation,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseValidate,
		Kind:  KindRankMismatch,
		Arg:   "SHAPE",
	}

	if !err.Is(&Error{Phase: PhaseValidate, Kind: KindRankMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindRankMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseValidate, Kind: KindRankMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("oops")
	err := New(PhaseValidate, KindOutOfRange).
		Arg("SHAPE").
		Value(int64(-4)).
		Cause(cause).
		Detail("extent %d is negative", -4).
		Build()

	if err.Phase != PhaseValidate || err.Kind != KindOutOfRange {
		t.Errorf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if err.Arg != "SHAPE" {
		t.Errorf("arg: got %q", err.Arg)
	}
	if v, ok := err.Value.(int64); !ok || v != -4 {
		t.Errorf("value: got %v", err.Value)
	}
	if err.Detail != "extent -4 is negative" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not chained")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		phase    Phase
		kind     Kind
		contains string
	}{
		{"rank mismatch", RankMismatch(PhaseValidate, "SHAPE", 2, 1), PhaseValidate, KindRankMismatch, "rank 2, need rank 1"},
		{"type mismatch", TypeMismatch(PhaseValidate, "ORDER", "real(4)", "integer"), PhaseValidate, KindTypeMismatch, "real(4)"},
		{"out of range", OutOfRange(PhaseValidate, "SHAPE", 99, 0, 15), PhaseValidate, KindOutOfRange, "99"},
		{"not permutation", NotPermutation("ORDER", 3), PhaseValidate, KindNotPermutation, "value 3"},
		{"insufficient source", InsufficientSource(6, 4), PhaseValidate, KindInsufficientSource, "needs 6"},
		{"allocation", AllocationFailed(48, 2, nil), PhaseAllocate, KindAllocation, "48 bytes"},
		{"unsupported width", UnsupportedWidth(3), PhaseDecode, KindUnsupportedWidth, "3 bytes"},
		{"subscript bounds", SubscriptOutOfBounds(0, 9, 1, 6), PhasePopulate, KindOutOfRange, "dimension 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase: got %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind: got %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
