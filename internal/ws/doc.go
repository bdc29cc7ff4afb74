// Package ws implements the WebSocket hub that streams the live fleet view
// — the rollup plus the latest assessment per unit — to connected
// dashboard clients on a fixed interval.
package ws
