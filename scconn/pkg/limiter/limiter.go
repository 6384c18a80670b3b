package limiter

import "time"

// Limiter bounds the number of concurrently held permits.
type Limiter interface {
	// Allow takes a permit, returning false when none is available.
	Allow() bool
	// Revert returns a permit taken by Allow.
	Revert()
}

type defaultLimiter struct {
	c chan struct{}
}

func NewLimiter(n uint32) Limiter {
	return &defaultLimiter{
		c: make(chan struct{}, n),
	}
}

func (l *defaultLimiter) Allow() bool {
	select {
	case l.c <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *defaultLimiter) Revert() {
	<-l.c
}

type timeoutLimiter struct {
	c       chan struct{}
	timeout time.Duration
}

// NewTimeoutLimiter behaves like NewLimiter, but Allow waits up to
// timeout for a permit instead of failing immediately.
// A timeout of 0 falls back to the non-blocking behaviour.
func NewTimeoutLimiter(n uint32, timeout time.Duration) Limiter {
	return &timeoutLimiter{
		c:       make(chan struct{}, n),
		timeout: timeout,
	}
}

func (l *timeoutLimiter) Allow() bool {
	if l.timeout <= 0 {
		select {
		case l.c <- struct{}{}:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(l.timeout)
	defer t.Stop()
	select {
	case l.c <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

func (l *timeoutLimiter) Revert() {
	<-l.c
}
