package pool

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sjy-dv/scconn/scconn/factory"
	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/limiter"
)

var _ netcore.Pool = &Pool{}

type poolConn struct {
	conn netcore.Conn
	t    int64
}

// Pool hands out connections created by a Factory. Checkout/checkin gives
// each borrower exclusive ownership of a conn; the factory takes care of
// seeding rebind-coupled relaxed timeouts on fresh connections.
type Pool struct {
	opts      netcore.Options
	fac       *factory.Factory
	connChan  chan *poolConn
	closeChan chan struct{}
	limiter   limiter.Limiter
	closed    int32
}

func NewPool() *Pool {
	return &Pool{
		opts: netcore.DefaultOptions(),
	}
}

func (p *Pool) WithOptions(opts netcore.Options) {
	p.opts = opts
}

func (p *Pool) Init(opts ...netcore.Option) error {
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.Addr.IsZero() && p.opts.Dialer == nil {
		return netcore.ErrPoolInvalidAddr
	}
	if p.opts.PoolMaxSize == 0 {
		p.opts.PoolMaxSize = 16
	}
	p.fac = factory.NewFactory()
	p.fac.WithOptions(p.opts)
	if err := p.fac.Init(); err != nil {
		return fmt.Errorf("pool:%w", err)
	}
	p.connChan = make(chan *poolConn, p.opts.PoolMaxSize)
	p.closeChan = make(chan struct{})
	p.limiter = limiter.NewTimeoutLimiter(p.opts.PoolMaxSize, p.opts.PoolGetTimeout)
	go func() {
		select {
		case <-p.opts.Ctx.Done():
		case <-p.closeChan:
		}
		p.Close()
	}()
	for i := 0; i < int(p.opts.PoolInitSize); i++ {
		conn, err := p.fac.MakeConn()
		if err != nil {
			p.Close()
			return fmt.Errorf("pool:%w", err)
		}
		p.connChan <- &poolConn{
			conn: conn,
			t:    time.Now().UnixNano(),
		}
	}
	return nil
}

func (p *Pool) Get() (conn netcore.Conn, err error) {
	if !p.limiter.Allow() {
		return nil, netcore.ErrPoolTimeout
	}
	defer func() {
		if err != nil {
			p.limiter.Revert()
		}
	}()

	for {
		select {
		case <-p.closeChan:
			return nil, netcore.ErrPoolClosed
		default:
		}

		select {
		case pc, ok := <-p.connChan:
			if !ok {
				return nil, netcore.ErrPoolClosed
			}
			if pc.conn.Closed() {
				continue
			}
			if p.opts.PoolIdleTimeout > 0 {
				if time.Now().UnixNano()-pc.t > p.opts.PoolIdleTimeout.Nanoseconds() {
					pc.conn.Close()
					continue
				}
			}
			if len(p.opts.HeartData) > 0 {
				if time.Now().UnixNano()-pc.t > p.opts.HeartInterval.Nanoseconds() {
					if _, err := pc.conn.WriteRead(p.opts.HeartData); err != nil {
						pc.conn.Close()
						continue
					}
				}
			}
			return pc.conn, nil
		default:
			return p.fac.MakeConn()
		}
	}
}

func (p *Pool) Put(conn netcore.Conn) {
	if conn == nil {
		return
	}
	p.limiter.Revert()

	select {
	case <-p.closeChan:
		conn.Close()
		return
	default:
	}
	if conn.Closed() {
		return
	}
	p.connChan <- &poolConn{
		conn: conn,
		t:    time.Now().UnixNano(),
	}

	// Close may have drained the channel between the check above and the
	// send; sweep once more so the conn does not outlive the pool
	select {
	case <-p.closeChan:
		p.drain()
	default:
	}
}

// Rebind forwards a rebind instruction to the factory; connections handed
// out later follow it, connections already checked out do not.
func (p *Pool) Rebind(target netcore.Address, ttl time.Duration) {
	p.fac.Rebind(target, ttl)
}

func (p *Pool) Close() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	close(p.closeChan)
	p.drain()
}

func (p *Pool) drain() {
	for {
		select {
		case pc := <-p.connChan:
			pc.conn.Close()
		default:
			return
		}
	}
}
