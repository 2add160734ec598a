// Package transport provides line-oriented client transports for the session
// server. A Conn delivers one protocol line per ReadLine and hides whether
// the client arrived over raw TCP or a WebSocket; reads never block, so the
// session loops can poll every connection on each tick.
package transport

import "net"

// Conn is a single client's transport.
type Conn interface {
	// ReadLine returns the next buffered inbound line. It never blocks;
	// ok is false when nothing is pending, including after the peer has
	// gone away; a dead peer is only ever detected by timeout.
	ReadLine() (line string, ok bool)

	// WriteLine sends one line to the peer. It is safe for concurrent use
	// and bounded by a write deadline, never blocking indefinitely.
	WriteLine(line string) error

	// Close shuts the transport down. Safe to call more than once.
	Close() error

	// RemoteAddr reports the peer's address, for logs.
	RemoteAddr() net.Addr
}

// readBuffer is how many inbound lines a connection may queue between polls
// before its reader stalls.
const readBuffer = 64
