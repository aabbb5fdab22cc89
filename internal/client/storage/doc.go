// Package storage implements the durable key/value storage that keeps the
// session (credential and identity) across process restarts.
//
// Backends:
//   - SQLite (default): a single session_kv table created by goose migrations.
//   - Badger: an embedded LSM store in its own directory.
//   - Memory: process-local, used in tests and for throwaway sessions.
//
// Any backend can be wrapped with Seal so that values are encrypted at rest.
//
// Absent keys are not errors: Get reports them with ok == false.
package storage
