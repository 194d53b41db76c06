// Package listeners provides a generic listener registry with snapshot-based
// fan-out and dispatch onto a designated main execution context.
//
// Membership uses Go equality on T: value equality for value types, identity
// for pointers. Listeners are kept in insertion order and every broadcast
// iterates a point-in-time Snapshot, so callbacks may add or remove
// listeners (themselves included) without affecting the traversal in
// progress. The registry lock is never held while a callback runs.
//
// The composite operations Ensure, ForEach, ForEachErr and DispatchOnMain are
// written once against the Store interface; Registry exposes them as methods
// for convenience.
package listeners
