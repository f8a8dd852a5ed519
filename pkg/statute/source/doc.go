// Package source loads statute catalogs from YAML files and keeps them
// fresh.
//
// A catalog file holds a list of statute documents; Loader decodes them into
// statute values, validates the relation graph, and returns an immutable
// statute.Set. Catalog wraps a loaded set behind an atomic swap so readers
// always see a complete, validated catalog, and Watcher reloads the catalog
// when the backing files change, with debouncing to absorb editor save
// storms. A reload that fails validation leaves the previous catalog in
// place.
package source
