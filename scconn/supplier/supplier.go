package supplier

import (
	"sync/atomic"
	"time"

	"github.com/sjy-dv/scconn/scconn/netcore"
)

var _ netcore.AddressSupplier = &RebindSupplier{}

// RebindSupplier resolves the address a new connection should target.
// Precedence, evaluated fresh on every Get: an active rebind override,
// then the delegate (normal topology), then the initial address.
//
// The rebind target is an immutable Expirable behind an atomic pointer.
// Rebind swaps the whole reference; readers always see either the prior
// target or the new one, never a torn value, so no lock is needed.
type RebindSupplier struct {
	initial  netcore.Address
	delegate netcore.AddressSupplier
	rebind   atomic.Pointer[netcore.Expirable[netcore.Address]]
}

func NewRebindSupplier(initial netcore.Address, delegate netcore.AddressSupplier) *RebindSupplier {
	return &RebindSupplier{
		initial:  initial,
		delegate: delegate,
	}
}

// Rebind replaces the rebind target wholesale with target, valid for ttl.
// At most one target is active at a time; a second call overwrites the
// first, no merging, no queueing.
func (s *RebindSupplier) Rebind(target netcore.Address, ttl time.Duration) {
	e := netcore.NewExpirable(target, ttl)
	s.rebind.Store(&e)
}

func (s *RebindSupplier) Get() netcore.Address {
	if e := s.rebind.Load(); e != nil && e.Valid() {
		return e.Value()
	}
	if s.delegate != nil {
		return s.delegate.Get()
	}
	return s.initial
}

// RebindInProgress reports whether a rebind target is set and still valid.
func (s *RebindSupplier) RebindInProgress() bool {
	e := s.rebind.Load()
	return e != nil && e.Valid()
}

// RebindExpiry returns the deadline of the last issued rebind. With no
// rebind ever issued it returns (zero, false) rather than failing.
func (s *RebindSupplier) RebindExpiry() (time.Time, bool) {
	e := s.rebind.Load()
	if e == nil {
		return time.Time{}, false
	}
	return e.ExpiresAt(), true
}
