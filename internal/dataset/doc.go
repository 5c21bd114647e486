// Package dataset reads the tabular jins and maqam sources.
//
// Both tables are CSV files with a header row. Columns are matched by header
// name, blank lines and lines starting with '#' are skipped, and every cell
// is trimmed. When no directory is configured the copies embedded in the
// binary are used.
package dataset
