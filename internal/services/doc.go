// Package services defines shared utilities consumed by the render pipeline
// and the reference client.
//
// It provides context helpers that stamp run IDs, stage names, and languages
// for logging, plus structured error markers and the Wrap helper that let the
// CLI translate failures into exit codes.
package services
