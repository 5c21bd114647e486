// Package pagecache stores fetched reference pages in a local SQLite
// database so repeated scrapes of maqamworld do not hit the network.
//
// Bodies are xz-compressed at rest and carry a BLAKE3 digest that is checked
// on every read; a mismatch surfaces as ErrCorrupt.
package pagecache
