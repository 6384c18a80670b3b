package netcore

import (
	"net"
	"time"
)

// AddressSupplier resolves the address a new connection should target.
// Get must be total: it always returns an address, never fails.
type AddressSupplier interface {
	Get() Address
}

// AddressSupplierFunc adapts a plain function to an AddressSupplier.
type AddressSupplierFunc func() Address

func (f AddressSupplierFunc) Get() Address {
	return f()
}

type Conn interface {
	// Init initiates Conn with options
	Init(opts ...Option) error
	// Read reads data from the connection.
	Read(buf []byte) (n int, err error)
	// ReadFull reads exactly len(buf) bytes from Conn into buf.
	// On return, n == len(buf) if and only if err == nil.
	ReadFull(buf []byte) (n int, err error)
	// WriteRead writes the request and reads the response.
	// HeaderCodec(in Options) is used; returns the msg body without header.
	WriteRead(req []byte) (body []byte, err error)
	// WriteReadBlocking is WriteRead for commands that block server-side
	// (e.g. a wait-for-data pop); it is allowed a larger read timeout
	// while relaxed timeouts are active.
	WriteReadBlocking(req []byte) (body []byte, err error)
	// Write writes data to the connection.
	Write(data []byte) error
	// Close closes the connection.
	Close() error
	// Closed
	Closed() bool
	// RemoteAddr returns the remote network address.
	RemoteAddr() net.Addr
	// SetTag sets a tag to Conn
	SetTag(tag string)
	// GetTag gets the tag
	GetTag() string
}

// RelaxedConn is a Conn whose read timeout can be temporarily enlarged to
// ride out a server-side maintenance window. Relaxed state expires lazily:
// it is re-checked whenever a command is about to execute or one of these
// accessors is queried, never by a background timer.
type RelaxedConn interface {
	Conn

	// RelaxTimeouts enters relaxed state with no expiry; it holds until
	// DisableRelaxedTimeout.
	RelaxTimeouts()
	// RelaxTimeoutsUntil enters relaxed state until expiry. A zero expiry
	// means open-ended; an expiry that is not in the future is a silent
	// no-op and leaves the prior state untouched.
	RelaxTimeoutsUntil(expiry time.Time)
	// DisableRelaxedTimeout unconditionally returns to the base timeout
	// and clears any recorded expiry.
	DisableRelaxedTimeout()
	// RelaxedTimeoutActive reports the state after the lazy-expiry check.
	RelaxedTimeoutActive() bool
	// RelaxedTimeoutExpiry returns the recorded expiry, if any.
	RelaxedTimeoutExpiry() (time.Time, bool)
	// CurrentReadTimeout is the timeout the next regular command applies.
	CurrentReadTimeout() time.Duration
	// CurrentBlockingReadTimeout is the timeout the next server-blocking
	// command applies.
	CurrentBlockingReadTimeout() time.Duration
}

// connection pool
type Pool interface {
	// Init initiates pool with options
	Init(opts ...Option) error
	// Get gets a Conn from the pool, creates an Conn if necessary,
	// removes it from the Pool, and returns it to the caller.
	Get() (conn Conn, err error)

	// Put adds conn to the pool.
	// The conn returned by Get should be passed to Put once and only once,
	// whether it's closed or not
	Put(conn Conn)

	// Close closes the pool and all connections in the pool
	Close()
}

// Recorder receives connection-lifecycle events (see the journal package).
type Recorder interface {
	Record(event string, addr Address)
}
