// Package biquad provides second-order IIR section runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain] for higher-order filters such as the seismic band-pass designed in
// dsp/filter/design/band.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design/band.
package biquad
