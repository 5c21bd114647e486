// Package preflight provides readiness checks for the data, directories and
// external binaries the generator depends on.
//
// These checks run in two contexts:
//   - The render command calls RunAll before building and refuses to start
//     when a required check fails.
//   - The CLI "maqamat doctor" command prints every result, optionally
//     including a reachability check against the reference site.
//
// Each optional check is gated by its config toggle.
package preflight
