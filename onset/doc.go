// Package onset generates P- and S-phase onset functions from
// three-component seismic traces.
//
// An [STALTA] holds the sampling rate, band-pass specifications and STA/LTA
// windows for each phase. [STALTA.POnset] filters the vertical component and
// returns its log STA/LTA onset; [STALTA.SOnset] does the same for both
// horizontal components and combines them by root mean square.
// [STALTA.PrePad] and [STALTA.PostPad] report how much data a caller must
// read around an analysis window so that filtering and averaging edge
// effects stay outside it.
package onset
