package netcore

import (
	"errors"
)

var (
	ErrTooLarge           = errors.New("data:too large")
	ErrConnClosed         = errors.New("conn:closed")
	ErrPoolClosed         = errors.New("pool:closed")
	ErrPoolTimeout        = errors.New("pool:timeout")
	ErrPoolInvalidAddr    = errors.New("pool:invalid addr")
	ErrFactoryInvalidAddr = errors.New("factory:invalid addr")

	// ErrRebindCustomDialer is returned at construction when proactive
	// rebind is requested together with a caller-supplied dialer. The
	// rebind supplier owns address resolution; the two cannot be combined.
	ErrRebindCustomDialer = errors.New("factory:proactive rebind requires the default dialer")
)
