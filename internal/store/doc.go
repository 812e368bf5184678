// Package store provides SQLite-backed storage for compiled function
// catalogs.
//
// A catalog is a set of function signatures identified by its content
// hash (ir.CatalogHash), so saving the same catalog twice is a no-op.
// Catalogs are ordered by a logical sequence number assigned on first
// save; the highest is the latest.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Signature arguments are stored as RFC 8785 canonical JSON, and every
// load recomputes the catalog hash to detect tampering.
package store
