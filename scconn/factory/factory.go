package factory

import (
	"fmt"
	"time"

	"github.com/sjy-dv/scconn/scconn/client"
	"github.com/sjy-dv/scconn/scconn/journal"
	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/delay"
	"github.com/sjy-dv/scconn/scconn/pkg/log"
	"github.com/sjy-dv/scconn/scconn/supplier"
)

// Factory creates pooled Connections. With proactive rebind enabled it
// resolves every target through a RebindSupplier, and a connection created
// while a rebind is in flight starts life with its read timeout relaxed
// until the same deadline the rebind carries. It inherits the remaining
// window, never a fresh full-length one.
type Factory struct {
	opts     netcore.Options
	supplier *supplier.RebindSupplier
}

func NewFactory() *Factory {
	return &Factory{
		opts: netcore.DefaultOptions(),
	}
}

func (f *Factory) WithOptions(opts netcore.Options) {
	f.opts = opts
}

// Init validates the configuration. Proactive rebind together with a
// custom dialer fails right here with ErrRebindCustomDialer: the supplier
// owns address precedence and a caller dialer cannot be overridden
// silently. With rebind disabled no supplier is constructed at all.
func (f *Factory) Init(opts ...netcore.Option) error {
	for _, opt := range opts {
		opt(&f.opts)
	}
	if f.opts.Addr.IsZero() && f.opts.Dialer == nil {
		return netcore.ErrFactoryInvalidAddr
	}
	if f.opts.ProactiveRebind {
		if f.opts.Dialer != nil {
			return netcore.ErrRebindCustomDialer
		}
		f.supplier = supplier.NewRebindSupplier(f.opts.Addr, f.opts.Delegate)
	}
	return nil
}

// MakeConn opens one connection to the currently resolved target.
func (f *Factory) MakeConn() (netcore.Conn, error) {
	addr := f.opts.Addr
	var relaxUntil time.Time
	seedRelax := false
	if f.supplier != nil {
		addr = f.supplier.Get()
		if f.supplier.RebindInProgress() {
			if expiry, ok := f.supplier.RebindExpiry(); ok {
				relaxUntil = expiry
				seedRelax = true
			}
		}
	}

	conn, err := f.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("factory:%w", err)
	}
	conn.SetTag(f.opts.Tag)
	if seedRelax {
		// the rebind may have lapsed between the check and here; the
		// non-future guard in RelaxTimeoutsUntil keeps that harmless
		conn.RelaxTimeoutsUntil(relaxUntil)
		f.record(journal.EventRelaxSeeded, addr)
	}
	f.record(journal.EventConnOpen, addr)
	return conn, nil
}

func (f *Factory) dial(addr netcore.Address) (*client.Connection, error) {
	backoff := delay.NewDialBackoff(f.opts.DialRetryMin, f.opts.DialRetryMax)
	attempts := int(f.opts.DialRetries) + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Debugf("redialing %s attempt %d:[%v]", addr, i+1, lastErr)
			time.Sleep(backoff.Next())
		}
		c := client.NewConnection()
		c.WithOptions(f.opts)
		if err := c.Init(netcore.WithAddr(addr)); err != nil {
			lastErr = err
			continue
		}
		return c, nil
	}
	return nil, lastErr
}

// Rebind redirects connections created from now on to target for ttl.
// Already-created connections keep whatever timeout state they hold.
// With proactive rebind disabled the instruction is dropped with a
// warning; there is no supplier to carry it.
func (f *Factory) Rebind(target netcore.Address, ttl time.Duration) {
	if f.supplier == nil {
		log.Warnf("rebind to %s ignored: proactive rebind disabled", target)
		return
	}
	f.supplier.Rebind(target, ttl)
	f.record(journal.EventRebind, target)
}

func (f *Factory) RebindInProgress() bool {
	return f.supplier != nil && f.supplier.RebindInProgress()
}

func (f *Factory) RebindExpiry() (time.Time, bool) {
	if f.supplier == nil {
		return time.Time{}, false
	}
	return f.supplier.RebindExpiry()
}

func (f *Factory) record(event string, addr netcore.Address) {
	if f.opts.Journal != nil {
		f.opts.Journal.Record(event, addr)
	}
}
