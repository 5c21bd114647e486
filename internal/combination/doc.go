// Package combination resolves compound jins expressions such as
// "ajam3 + kurd + nahawand3" into one flat interval sequence.
//
// Segments are joined by the literal separator " + ". A segment is a
// registered jins name optionally followed by a single overlap digit: the
// number of notes of that jins kept before the next segment starts, so the
// first overlap-1 intervals are appended. Without a digit the whole jins is
// kept (overlap defaults to len(intervals)+1).
//
// Resolution is pure: the same expression resolved against the same registry
// always yields the same result.
package combination
