package client

import (
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/sjy-dv/scconn/scconn/internal"
	"github.com/sjy-dv/scconn/scconn/netcore"
)

var _ netcore.RelaxedConn = &Connection{}

// Connection owns one socket-level session. It is exclusively held by one
// borrower at a time; the relaxed-timeout state is the only field touched
// across checkout/checkin boundaries and is kept behind an atomic pointer
// for visibility.
type Connection struct {
	opts    netcore.Options
	conn    net.Conn
	buffer  *internal.ReadBuffer
	relaxed atomic.Pointer[relaxedState]
	closed  int32
	tag     string
}

func NewConnection() *Connection {
	return &Connection{
		opts: netcore.DefaultOptions(),
	}
}

func (c *Connection) WithOptions(opts netcore.Options) {
	c.opts = opts
}

func (c *Connection) Init(opts ...netcore.Option) error {
	for _, opt := range opts {
		opt(&c.opts)
	}
	conn, err := c.dial()
	if err != nil {
		return err
	}
	c.conn = conn
	c.buffer = internal.NewReadBuffer(c.conn, int(c.opts.InitReadBufLen), int(c.opts.MaxReadBufLen))
	// base timeout holds until someone relaxes it
	_ = c.conn.SetReadDeadline(c.getReadDeadline(false))
	return nil
}

func (c *Connection) dial() (net.Conn, error) {
	if c.opts.Dialer != nil {
		return c.opts.Dialer(c.opts.Addr)
	}
	return net.DialTimeout("tcp", c.opts.Addr.String(), c.opts.DialTimeout)
}

// Read
func (c *Connection) Read(buf []byte) (n int, err error) {
	_ = c.conn.SetReadDeadline(c.getReadDeadline(false))
	return c.conn.Read(buf)
}

// ReadFull
// On return, n == len(buf) if and only if err == nil.
func (c *Connection) ReadFull(buf []byte) (n int, err error) {
	_ = c.conn.SetReadDeadline(c.getReadDeadline(false))
	return io.ReadFull(c.conn, buf)
}

// WriteRead using HeaderCodec
// returning msg body, without header
func (c *Connection) WriteRead(req []byte) (body []byte, err error) {
	return c.writeRead(req, false)
}

// WriteReadBlocking is WriteRead for commands the server may hold open
// (wait-for-data pops and friends); while relaxed it applies the blocking
// relaxed timeout instead of the regular one.
func (c *Connection) WriteReadBlocking(req []byte) (body []byte, err error) {
	return c.writeRead(req, true)
}

func (c *Connection) writeRead(req []byte, blocking bool) (body []byte, err error) {
	if c.Closed() {
		return nil, netcore.ErrConnClosed
	}
	data := c.opts.HeaderCodec.Encode(req)
	_ = c.conn.SetWriteDeadline(c.getWriteDeadline())
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("write:%w", err)
	}

	_ = c.conn.SetReadDeadline(c.getReadDeadline(blocking))
	for {
		if _, err := c.buffer.Fill(); err != nil {
			return nil, fmt.Errorf("read:%w", err)
		}
		bodyLen, headerLen := c.opts.HeaderCodec.Decode(c.buffer.Data())
		if headerLen == 0 {
			continue
		}
		msgLen := bodyLen + headerLen
		if msgLen > c.opts.MaxReadBufLen {
			return nil, netcore.ErrTooLarge
		}
		if uint32(c.buffer.Len()) < msgLen {
			continue
		}
		buf := make([]byte, bodyLen)
		c.buffer.Consume(int(headerLen), int(bodyLen), buf)
		return buf, nil
	}
}

// Write using HeaderCodec
func (c *Connection) Write(data []byte) error {
	if c.Closed() {
		return netcore.ErrConnClosed
	}
	data = c.opts.HeaderCodec.Encode(data)
	_ = c.conn.SetWriteDeadline(c.getWriteDeadline())
	if _, err := c.conn.Write(data); err != nil {
		return err
	}
	return nil
}

func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	return c.conn.Close()
}

func (c *Connection) Closed() bool {
	if atomic.LoadInt32(&c.closed) == 1 {
		return true
	}
	return false
}

func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Connection) SetTag(tag string) {
	c.tag = tag
}

func (c *Connection) GetTag() string {
	return c.tag
}

// getReadDeadline selects the currently desired timeout. Running right
// before every read, it doubles as the lazy-expiry checkpoint: an expired
// relaxed window collapses here, before the deadline is applied.
func (c *Connection) getReadDeadline(blocking bool) (t time.Time) {
	if d := c.desiredTimeout(blocking); d > 0 {
		t = time.Now().Add(d)
	}
	return
}

func (c *Connection) getWriteDeadline() (t time.Time) {
	if c.opts.WriteTimeout > 0 {
		t = time.Now().Add(c.opts.WriteTimeout)
	}
	return
}
