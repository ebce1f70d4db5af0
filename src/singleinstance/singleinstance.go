// Package singleinstance lets a second launch hand its work to the resident
// frame over a loopback TCP socket instead of opening another frame.
package singleinstance

import (
	"context"

	"screen-frame-capture/src/frame"
)

// Server owns the TCP endpoint and answers capture requests.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondSuccess sends success with the saved file path, or an empty
	// string when nothing was written to disk.
	RespondSuccess(path string) error
	// RespondError sends an error with human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Request represents a single capture request.
type Request struct {
	Mode frame.Mode
}

// Client attempts to delegate a capture to a resident frame.
type Client interface {
	// Detect scans the port range and returns the port of a resident that
	// answers PING.
	Detect(ctx context.Context) (port int, ok bool)
	// TryCapture scans the port range, performs the handshake, and asks the
	// resident to capture its current frame area. If no resident is found,
	// returns delegated=false, err=nil.
	TryCapture(ctx context.Context, mode frame.Mode) (delegated bool, path string, err error)
}

// NewServer returns a TCP server that binds the first port of ports.
func NewServer(ports PortRange) Server { return newTcpServer(ports) }

// NewClient returns a TCP client that scans ports.
func NewClient(ports PortRange) Client { return newTcpClient(ports) }
