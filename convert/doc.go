// Package convert repacks pixel buffers between the layouts a GPU can
// transfer natively and the legacy layouts pixmaps are stored in.
//
// Every function here is pure: no GPU calls, no global state. Buffers are
// addressed row-major with independent source and destination strides in
// bytes. Pixel words are little-endian.
package convert
