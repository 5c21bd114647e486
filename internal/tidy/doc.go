// Package tidy runs the external HTML tidy binary over rendered pages.
//
// Tidy rewrites each page in place using the configured arguments. Exit
// status 1 only reports warnings and is logged; status 2 and above, timeouts
// and a missing binary are returned as external tool errors.
package tidy
