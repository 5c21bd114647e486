// Package maqam assembles maqamat from a tonic combination and up to two
// ghammaz combinations, and exposes their binary views.
//
// Batch assembly isolates failures per row: AssembleAll returns one Result
// per input row, and a malformed row is reported with the offending maqam and
// field instead of aborting the rest of the batch. Match searches the
// assembled maqamat for transpositions that contain a set of scale degrees.
package maqam
