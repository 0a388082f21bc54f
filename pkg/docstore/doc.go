// Package docstore is the document database boundary of the auth flow.
//
// A Store holds opaque JSON documents addressed by (collection, id). The
// profile package is the only consumer; it owns the document shape.
//
// Backends:
//   - MemoryStore   in-process map, used in tests and the demo server
//   - FileStore     one JSON file in a data directory, rewritten atomically
//   - PostgresStore jsonb rows in a "documents" table (pgx)
//   - RedisStore    one key per document (go-redis)
//   - SQLiteStore   embedded database (modernc.org/sqlite)
//
// Get returns ErrNotFound when no document exists. Delete of a missing
// document succeeds, matching hosted document databases.
package docstore
