// Package database manages the optional Postgres connection pool used by
// the execution journal.
package database
