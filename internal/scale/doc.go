// Package scale folds interval sequences into 24-step bitmasks, one bit per
// quarter-tone position within the octave.
//
// Bit numbering is reversed so earlier scale degrees land on higher-order
// bits: a degree c quarter-tones above the tonic sets bit (24-c-1) mod 24.
// The tonic itself is never set explicitly; a sequence spanning exactly one
// octave lands on bit 23.
package scale
