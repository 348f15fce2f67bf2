// Package sqlite stores item slots in a single SQLite database.
//
// Each slot key maps to one row of the slots table. The payload is kept as
// an opaque BLOB next to its last write time; the engine owns the format.
// The driver is modernc.org/sqlite, so the binary builds without cgo.
//
// # Schema
//
// Migrations are embedded from migrations/ and applied in file order when
// the store opens.
//
// # Location
//
// The database file is lifeops.db under the configured data directory,
// ~/.lifeops/data by default. It opens in WAL mode with a busy timeout so a
// CLI run and an MCP server can share it.
package sqlite
