// Package datagrid implements a server-side data-grid engine: it applies
// user-supplied filter and sort parameters to a collection, paginates, and
// serializes the result as an interactive JSON envelope or as downloadable
// CSV and spreadsheet files with a human-readable description of the active
// filters.
//
// The pipeline composes small immutable parts. A Converter moves one request
// parameter between its wire form and a typed value. A Filter validates a
// typed value and narrows a Collection with one predicate. A Widget pairs
// the two into one user-adjustable criterion. A Column pairs a field with a
// Serializer and an optional sort rule. A Storage owns the collection plus
// its columns and widgets and orchestrates filter, sort and serialization; a
// Table is the thin request façade in front of it.
//
// Collections are opaque query capabilities. The core never materializes one
// except at the designated pagination slice and full-file exports; see the
// collection/memory and collection/postgres subpackages for the bundled
// implementations.
package datagrid
