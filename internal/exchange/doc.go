// Package exchange implements the security registry, the shared concurrent
// map from ticker to listed security that every handler reads and mutates.
//
// All mutation goes through the registry's atomic operations; callers never
// hold a reference into the map. Reads copy the entry out under the lock, so
// a concurrent price update is observed either entirely or not at all.
package exchange
