package client

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjy-dv/scconn/scconn/netcore"
)

const (
	baseTimeout            = 2 * time.Second
	relaxedTimeout         = 5 * time.Second
	relaxedBlockingTimeout = 10 * time.Second
)

// startEchoServer accepts length-prefixed frames and echoes them back,
// standing in for a database node.
func startEchoServer(t *testing.T) netcore.Address {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				hdr := make([]byte, 4)
				for {
					if _, err := io.ReadFull(c, hdr); err != nil {
						return
					}
					body := make([]byte, binary.BigEndian.Uint32(hdr))
					if _, err := io.ReadFull(c, body); err != nil {
						return
					}
					if _, err := c.Write(append(hdr, body...)); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return netcore.NewAddress("127.0.0.1", l.Addr().(*net.TCPAddr).Port)
}

// startSilentServer accepts connections and never replies.
func startSilentServer(t *testing.T) netcore.Address {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				io.Copy(io.Discard, c)
				c.Close()
			}(conn)
		}
	}()

	return netcore.NewAddress("127.0.0.1", l.Addr().(*net.TCPAddr).Port)
}

func newTestConn(t *testing.T, addr netcore.Address, opts ...netcore.Option) *Connection {
	t.Helper()
	c := NewConnection()
	c.WithOptions(netcore.DefaultOptions())
	base := []netcore.Option{
		netcore.WithAddr(addr),
		netcore.WithReadTimeout(baseTimeout),
		netcore.WithRelaxedTimeout(relaxedTimeout, relaxedBlockingTimeout),
	}
	require.NoError(t, c.Init(append(base, opts...)...))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRelaxedTimeoutBasic(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	assert.False(t, c.RelaxedTimeoutActive())
	_, ok := c.RelaxedTimeoutExpiry()
	assert.False(t, ok)
	assert.Equal(t, baseTimeout, c.CurrentReadTimeout())

	c.RelaxTimeouts()

	assert.True(t, c.RelaxedTimeoutActive())
	_, ok = c.RelaxedTimeoutExpiry()
	assert.False(t, ok) // open-ended, no expiry recorded
	assert.Equal(t, relaxedTimeout, c.CurrentReadTimeout())
	assert.Equal(t, relaxedBlockingTimeout, c.CurrentBlockingReadTimeout())
}

func TestRelaxWithPastExpiryIsNoOp(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	c.RelaxTimeoutsUntil(time.Now().Add(-10 * time.Second))

	assert.False(t, c.RelaxedTimeoutActive())
	_, ok := c.RelaxedTimeoutExpiry()
	assert.False(t, ok)
	assert.Equal(t, baseTimeout, c.CurrentReadTimeout())
}

func TestRelaxWithPastExpiryKeepsPriorState(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	c.RelaxTimeouts()
	c.RelaxTimeoutsUntil(time.Now().Add(-time.Second))

	// the open-ended relaxation survives the rejected request
	assert.True(t, c.RelaxedTimeoutActive())
	assert.Equal(t, relaxedTimeout, c.CurrentReadTimeout())
}

func TestRelaxWithFutureExpiry(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	future := time.Now().Add(30 * time.Second)
	c.RelaxTimeoutsUntil(future)

	assert.True(t, c.RelaxedTimeoutActive())
	expiry, ok := c.RelaxedTimeoutExpiry()
	assert.True(t, ok)
	assert.Equal(t, future, expiry)
	assert.Equal(t, relaxedTimeout, c.CurrentReadTimeout())
}

func TestRelaxWithZeroExpiryIsOpenEnded(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	c.RelaxTimeoutsUntil(time.Time{})

	assert.True(t, c.RelaxedTimeoutActive())
	_, ok := c.RelaxedTimeoutExpiry()
	assert.False(t, ok)
}

func TestDisableRelaxedTimeoutUnconditional(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	// from open-ended relaxation
	c.RelaxTimeouts()
	c.DisableRelaxedTimeout()
	assert.False(t, c.RelaxedTimeoutActive())
	_, ok := c.RelaxedTimeoutExpiry()
	assert.False(t, ok)
	assert.Equal(t, baseTimeout, c.CurrentReadTimeout())

	// from deadline-bounded relaxation
	c.RelaxTimeoutsUntil(time.Now().Add(time.Minute))
	assert.True(t, c.RelaxedTimeoutActive())
	c.DisableRelaxedTimeout()
	assert.False(t, c.RelaxedTimeoutActive())

	// from normal state it stays a no-op
	c.DisableRelaxedTimeout()
	assert.False(t, c.RelaxedTimeoutActive())
}

func TestLazyAutoRevert(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	c.RelaxTimeoutsUntil(time.Now().Add(50 * time.Millisecond))
	assert.True(t, c.RelaxedTimeoutActive())
	assert.Equal(t, relaxedTimeout, c.CurrentReadTimeout())

	time.Sleep(80 * time.Millisecond)

	// no timer fired; the next query is the checkpoint that reverts
	assert.False(t, c.RelaxedTimeoutActive())
	assert.Equal(t, baseTimeout, c.CurrentReadTimeout())
	_, ok := c.RelaxedTimeoutExpiry()
	assert.False(t, ok)
}

func TestRelaxOverwriteExtendsDeadline(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	c.RelaxTimeoutsUntil(time.Now().Add(10 * time.Millisecond))
	later := time.Now().Add(time.Minute)
	c.RelaxTimeoutsUntil(later)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, c.RelaxedTimeoutActive())
	expiry, ok := c.RelaxedTimeoutExpiry()
	assert.True(t, ok)
	assert.Equal(t, later, expiry)
}

func TestRelaxWithoutConfiguredRelaxedTimeout(t *testing.T) {
	c := newTestConn(t, startEchoServer(t), netcore.WithRelaxedTimeout(0, 0))

	c.RelaxTimeouts()

	// state is tracked but the applied timeout stays at base
	assert.True(t, c.RelaxedTimeoutActive())
	assert.Equal(t, baseTimeout, c.CurrentReadTimeout())
	assert.Equal(t, baseTimeout, c.CurrentBlockingReadTimeout())
}

func TestWriteReadEcho(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))

	body, err := c.WriteRead([]byte("PING"))
	require.NoError(t, err)
	assert.Equal(t, []byte("PING"), body)

	c.RelaxTimeouts()
	body, err = c.WriteReadBlocking([]byte("BRPOP q 0"))
	require.NoError(t, err)
	assert.Equal(t, []byte("BRPOP q 0"), body)
}

func TestReadTimeoutPropagates(t *testing.T) {
	c := newTestConn(t, startSilentServer(t), netcore.WithReadTimeout(50*time.Millisecond))

	_, err := c.WriteRead([]byte("PING"))
	require.Error(t, err)
	var netErr net.Error
	assert.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestCloseIdempotent(t *testing.T) {
	c := newTestConn(t, startEchoServer(t))
	require.NoError(t, c.Close())
	assert.True(t, c.Closed())
	require.NoError(t, c.Close())

	_, err := c.WriteRead([]byte("PING"))
	assert.ErrorIs(t, err, netcore.ErrConnClosed)
}
