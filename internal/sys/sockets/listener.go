// Package sockets creates the passive IPv4 TCP endpoint.
package sockets

import (
	"net"
)

// Backlog is the number of pending connections the endpoint queues.
const Backlog = 5

// Listener is a bound, passive IPv4 stream endpoint.
type Listener struct {
	net.Listener
	Backlog   int
	ReuseAddr bool
}

// Listen creates the endpoint on host:port. host must be an IPv4 literal;
// port 0 selects an ephemeral port.
func Listen(host string, port int) (*Listener, error) {
	return listen(host, port, Backlog)
}

// Port returns the bound local port.
func (l *Listener) Port() int {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
