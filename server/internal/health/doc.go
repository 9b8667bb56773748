// Package health implements the store reachability probe that gates every
// read and write path operation. One probe per request, bounded timeout,
// boolean answer, no caching.
package health
