// Package library persists the indexed collection in SQLite and exposes the
// lookups every duplicate check depends on.
//
// The Store owns IndexedFile records exclusively. Hash lookups scope to
// active rows by default; soft-deleted rows stay in place until an explicit
// hard delete. Batch operations run inside a single transaction with one
// prepared statement so indexing thousands of files stays a constant number
// of SQL round-trips, and the hash batch lookups collapse N probes into one
// IN query. The database runs in WAL mode so readers never block the writer.
package library
