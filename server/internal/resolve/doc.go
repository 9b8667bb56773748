// Package resolve implements the status resolver: the read path that maps
// store-level outcomes (found, empty, unreachable, query failure) onto the
// status domain. Bulk resolution isolates per-service failures so one bad
// collection never hides the status of its siblings.
package resolve
