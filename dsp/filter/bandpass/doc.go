// Package bandpass applies a zero-phase Butterworth band-pass filter to
// multi-channel seismic traces.
//
// Each channel is de-offset by its first sample, multiplied by a split
// cosine taper, filtered backwards and then forwards through the same
// biquad cascade. The two passes cancel the phase response, so arrivals are
// not shifted in time, and square the magnitude response: a filter of order
// N rolls off like one of order 2N.
package bandpass
