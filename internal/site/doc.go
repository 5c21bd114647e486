// Package site renders the assembled maqamat and ajnas into one static HTML
// page per language.
//
// A Builder locks the output directory, writes fingerprinted assets, renders
// each language through the embedded html/template set, optionally runs an
// external tidy pass, and parses every page back with xmlquery to check its
// structure before reporting a Summary.
package site
