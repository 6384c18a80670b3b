package netcore

import (
	"context"
	"net"
	"time"
)

const (
	B  = 1
	KB = 1024 * B

	DefaultReadTimeout  = 2 * time.Second
	DefaultWriteTimeout = 2 * time.Second
	DefaultDialTimeout  = 5 * time.Second
)

type Options struct {
	Ctx context.Context

	// Addr is the initial target. With proactive rebind enabled it also
	// seeds the rebind supplier's fallback.
	Addr Address

	// Dialer replaces the default TCP dialer. Mutually exclusive with
	// ProactiveRebind; see ErrRebindCustomDialer.
	Dialer func(addr Address) (net.Conn, error)

	// Delegate is an optional pluggable resolver reflecting normal
	// topology. It sits between the rebind override and Addr in the
	// resolution precedence.
	Delegate AddressSupplier

	// ProactiveRebind gates whether the factory consults the rebind
	// supplier at all. Default false.
	ProactiveRebind bool

	DialTimeout  time.Duration
	ReadTimeout  time.Duration // base socket timeout, always applied
	WriteTimeout time.Duration

	// RelaxedTimeout applies to regular commands while relaxed timeouts
	// are active; RelaxedBlockingTimeout applies to commands that block
	// server-side. Either left at 0 falls back to ReadTimeout.
	RelaxedTimeout         time.Duration
	RelaxedBlockingTimeout time.Duration

	// DialRetries is the number of extra dial attempts on transient
	// failures, spaced by a doubling backoff in [DialRetryMin, DialRetryMax].
	DialRetries  uint32
	DialRetryMin time.Duration
	DialRetryMax time.Duration

	InitReadBufLen uint32
	MaxReadBufLen  uint32
	HeaderCodec    HeaderCodec

	PoolInitSize    uint32
	PoolMaxSize     uint32
	PoolGetTimeout  time.Duration
	PoolIdleTimeout time.Duration

	HeartData     []byte
	HeartInterval time.Duration

	// Journal, when set, receives lifecycle events (rebind issued,
	// connection opened, relaxation seeded).
	Journal Recorder

	Tag string
}

func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		DialTimeout:    DefaultDialTimeout,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		InitReadBufLen: 4 * KB,
		MaxReadBufLen:  64 * KB,
		HeaderCodec:    NewLengthFieldCodec(),
		HeartInterval:  30 * time.Second,
	}
}

type Option func(o *Options)

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Ctx = ctx
	}
}

func WithAddr(addr Address) Option {
	return func(o *Options) {
		o.Addr = addr
	}
}

func WithDialer(dialer func(addr Address) (net.Conn, error)) Option {
	return func(o *Options) {
		o.Dialer = dialer
	}
}

func WithDelegate(delegate AddressSupplier) Option {
	return func(o *Options) {
		o.Delegate = delegate
	}
}

func WithProactiveRebind(enabled bool) Option {
	return func(o *Options) {
		o.ProactiveRebind = enabled
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.DialTimeout = d
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadTimeout = d
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WriteTimeout = d
	}
}

func WithRelaxedTimeout(regular, blocking time.Duration) Option {
	return func(o *Options) {
		o.RelaxedTimeout = regular
		o.RelaxedBlockingTimeout = blocking
	}
}

func WithDialRetries(n uint32, min, max time.Duration) Option {
	return func(o *Options) {
		o.DialRetries = n
		o.DialRetryMin = min
		o.DialRetryMax = max
	}
}

func WithReadBufLen(init, max uint32) Option {
	return func(o *Options) {
		o.InitReadBufLen = init
		o.MaxReadBufLen = max
	}
}

func WithHeaderCodec(codec HeaderCodec) Option {
	return func(o *Options) {
		o.HeaderCodec = codec
	}
}

func WithPoolSize(init, max uint32) Option {
	return func(o *Options) {
		o.PoolInitSize = init
		o.PoolMaxSize = max
	}
}

func WithPoolGetTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.PoolGetTimeout = d
	}
}

func WithPoolIdleTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.PoolIdleTimeout = d
	}
}

func WithHeart(data []byte, interval time.Duration) Option {
	return func(o *Options) {
		o.HeartData = data
		if interval > 0 {
			o.HeartInterval = interval
		}
	}
}

func WithJournal(journal Recorder) Option {
	return func(o *Options) {
		o.Journal = journal
	}
}

func WithTag(tag string) Option {
	return func(o *Options) {
		o.Tag = tag
	}
}
