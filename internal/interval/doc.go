// Package interval maps quarter-tone step counts to the glyphs shown on the
// maqamat site.
//
// The vocabulary is closed: only 1 through 6 quarter-tones (¼ to 1½ tones)
// occur inside a jins, and any other value is reported as an
// UnknownIntervalError rather than formatted as a general fraction.
package interval
