package client

import (
	"time"
)

// relaxedState is an immutable snapshot of the relaxed-timeout state.
// A nil pointer in Connection.relaxed means normal timeouts. A zero
// expiry means the relaxation is open-ended and only an explicit disable
// ends it.
type relaxedState struct {
	expiry time.Time
}

// RelaxTimeouts enters relaxed state with no expiry. It holds until
// DisableRelaxedTimeout is called.
func (c *Connection) RelaxTimeouts() {
	c.relaxed.Store(&relaxedState{})
}

// RelaxTimeoutsUntil enters relaxed state until expiry. A zero expiry is
// the open-ended form. An expiry that is not strictly in the future is a
// deliberate no-op: a caller racing against an already elapsed deadline
// must not be granted relaxed timeouts at all, so whatever state was
// active stays active.
func (c *Connection) RelaxTimeoutsUntil(expiry time.Time) {
	if expiry.IsZero() {
		c.RelaxTimeouts()
		return
	}
	if !expiry.After(time.Now()) {
		return
	}
	c.relaxed.Store(&relaxedState{expiry: expiry})
}

// DisableRelaxedTimeout unconditionally returns to the base timeout and
// clears any recorded expiry.
func (c *Connection) DisableRelaxedTimeout() {
	c.relaxed.Store(nil)
}

// RelaxedTimeoutActive reports whether relaxed timeouts currently apply,
// after running the lazy-expiry check.
func (c *Connection) RelaxedTimeoutActive() bool {
	return c.checkRelaxed() != nil
}

// RelaxedTimeoutExpiry returns the recorded expiry. ok is false in normal
// state and for open-ended relaxation.
func (c *Connection) RelaxedTimeoutExpiry() (expiry time.Time, ok bool) {
	st := c.checkRelaxed()
	if st == nil || st.expiry.IsZero() {
		return time.Time{}, false
	}
	return st.expiry, true
}

// CurrentReadTimeout is the timeout the next regular command will push
// down as the socket read deadline.
func (c *Connection) CurrentReadTimeout() time.Duration {
	return c.desiredTimeout(false)
}

// CurrentBlockingReadTimeout is the same for server-blocking commands.
func (c *Connection) CurrentBlockingReadTimeout() time.Duration {
	return c.desiredTimeout(true)
}

// checkRelaxed is the lazy-expiry checkpoint. There is no timer: a relaxed
// window whose expiry has passed survives until the next command execution
// or state query, at which point this collapses it back to normal in one
// CAS. A concurrent re-relaxation wins the CAS and is kept.
func (c *Connection) checkRelaxed() *relaxedState {
	st := c.relaxed.Load()
	if st == nil {
		return nil
	}
	if !st.expiry.IsZero() && !time.Now().Before(st.expiry) {
		c.relaxed.CompareAndSwap(st, nil)
		return nil
	}
	return st
}

func (c *Connection) desiredTimeout(blocking bool) time.Duration {
	if c.checkRelaxed() == nil {
		return c.opts.ReadTimeout
	}
	if blocking && c.opts.RelaxedBlockingTimeout > 0 {
		return c.opts.RelaxedBlockingTimeout
	}
	if c.opts.RelaxedTimeout > 0 {
		return c.opts.RelaxedTimeout
	}
	return c.opts.ReadTimeout
}
