package delay

import (
	"time"
)

// Backoff yields the wait before the next dial retry.
type Backoff interface {
	Next() time.Duration
	Reset()
}

// dialBackoff doubles the delay on every call, within [min, max].
type dialBackoff struct {
	cur time.Duration
	min time.Duration // default 100ms
	max time.Duration // default 2s
}

func NewDialBackoff(min, max time.Duration) Backoff {
	if min == 0 {
		min = 100 * time.Millisecond
	}
	if max == 0 {
		max = 2 * time.Second
	}
	if min > max {
		min = max
	}
	return &dialBackoff{min: min, max: max}
}

func (b *dialBackoff) Next() time.Duration {
	if b.cur == 0 {
		b.cur = b.min
		return b.cur
	}
	b.cur <<= 1
	if b.cur > b.max {
		b.cur = b.max
	}
	return b.cur
}

func (b *dialBackoff) Reset() {
	b.cur = 0
}
