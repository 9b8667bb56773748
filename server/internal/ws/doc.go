// Package ws implements the WebSocket hub that streams the bulk status
// snapshot to connected clients on a fixed interval. Slow clients are
// disconnected rather than allowed to back-pressure the broadcast loop.
package ws
