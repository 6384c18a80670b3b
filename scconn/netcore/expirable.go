package netcore

import "time"

// Expirable pairs a value with an absolute deadline. The deadline is
// computed once at construction and never re-evaluated; validity is a pure
// comparison against the clock at the point of use. There is no timer
// behind it.
type Expirable[V any] struct {
	value     V
	expiresAt time.Time
}

// NewExpirable wraps value with deadline now+ttl.
func NewExpirable[V any](value V, ttl time.Duration) Expirable[V] {
	return Expirable[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// NewExpirableAt wraps value with an explicit deadline. A zero deadline
// produces a wrapper that is never valid.
func NewExpirableAt[V any](value V, expiresAt time.Time) Expirable[V] {
	return Expirable[V]{
		value:     value,
		expiresAt: expiresAt,
	}
}

// Valid reports whether a deadline was set and the current time is still
// strictly before it.
func (e Expirable[V]) Valid() bool {
	return !e.expiresAt.IsZero() && time.Now().Before(e.expiresAt)
}

func (e Expirable[V]) Value() V {
	return e.value
}

func (e Expirable[V]) ExpiresAt() time.Time {
	return e.expiresAt
}
