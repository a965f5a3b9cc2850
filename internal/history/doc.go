// Package history records pipeline runs in a SQLite database so the CLI and
// the API can list what was processed, when, and with which outcome.
//
// The schema is embedded and versioned; a database created by a different
// schema version is rejected with ErrSchemaMismatch rather than migrated.
package history
