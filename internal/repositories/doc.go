// Package repositories implements SQLite persistence for playlist entries.
//
// [URLRepository] is the only type that reads or writes the urls table. It keeps three
// guarantees the rest of the application relies on:
//   - every stored mode is one of the four [models.Mode] values (checked before the insert,
//     and again by the table's CHECK constraint),
//   - IDs come from AUTOINCREMENT and are never reused after a delete,
//   - listings are ordered by created_at, then id.
//
// Each mutation touches exactly one row, so no explicit transactions are needed; SQLite's
// single-writer locking serializes concurrent inserts.
package repositories
