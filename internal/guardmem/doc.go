// Package guardmem provides an allocator that detects out-of-bounds writes.
//
// Every allocation reserves a region laid out as
//
//	[ left padding | header | payload | right padding ]
//	  Padding        HeaderSize size      Padding
//
// The whole region is first filled with a position-dependent signature, so
// the payload also starts out as recognisable garbage rather than zeros.
// The header records the payload size twice, a magic value and a checksum
// over its own bytes. Free re-verifies the header and both paddings and
// reports the first mismatch as a *CorruptionError. The memory is released
// whether or not corruption is found.
//
// Block.Bytes exposes the payload with a capacity that reaches into the
// right padding, so an append past the requested size lands in guarded
// memory and is reported on Free. Block.At gives byte access anywhere in
// the reserved region, which is how tests probe writes just past either
// edge.
package guardmem
