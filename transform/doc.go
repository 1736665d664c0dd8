// Package transform implements the transformational array intrinsics over
// descriptors; reshape is the canonical member.
//
// The intrinsics are rank- and type-generic: argument element types and
// kind widths are resolved at run time from the descriptors, and element
// data moves by untyped byte copy. Shape and order arguments arrive as
// rank-1 integer arrays of any supported kind width and are decoded through
// the fixed-width integer reader.
//
// Argument validation follows the fatal contract described in the root
// package: the compiler has already enforced well-formedness, so a
// violation here is a defect upstream and terminates the process.
package transform
