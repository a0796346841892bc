// Package journal persists execution reports to Postgres in batches.
//
// The journal is write-only audit output: nothing reads it back, and the
// exchange runs fully in-memory when no database is configured.
package journal
