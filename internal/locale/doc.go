// Package locale loads per-language message catalogs and translates page
// strings and jins names for the rendered site.
//
// Catalogs are TOML files named after their language tag (en.toml, ar.toml)
// with [meta], [messages] and [names] tables. The built-in catalogs are
// embedded; a directory of replacements can be loaded instead.
package locale
