// Package jins defines melodic fragments (ajnas) and the immutable registry
// that maps a jins identifier to its interval sequence.
//
// A Registry is loaded once per render from a caller-supplied Source. Loading
// is all-or-nothing: a malformed record or a repeated name fails the whole
// load with a MalformedRecordError or DuplicateNameError.
package jins
