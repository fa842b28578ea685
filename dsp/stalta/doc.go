// Package stalta computes short-term-average / long-term-average energy
// ratios of seismic traces and the clipped log onset function derived from
// them.
//
// Two window alignments are supported. [Classic] places both windows so
// they end at the output sample. [Centred] places the short window
// immediately after the long window and assigns the ratio to the boundary
// between them, which reduces the late bias of the onset at the cost of a
// higher sensitivity to step offsets.
package stalta
