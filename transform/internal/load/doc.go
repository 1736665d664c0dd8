// Package load reads fixed-width signed integers out of raw element
// storage. The intrinsics use it to decode SHAPE and ORDER values whose
// kind width is only known at run time.
package load
