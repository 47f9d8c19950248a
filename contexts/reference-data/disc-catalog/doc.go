// Package disccatalog serves the immutable disc/course reference data.
//
// The catalog is read-only at runtime: rows are seeded at startup and the
// service exposes lookups and listings only. The bag write path consults it
// for existence checks through a narrow port owned by that module.
package disccatalog
