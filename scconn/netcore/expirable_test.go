package netcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpirableValidWithinTTL(t *testing.T) {
	e := NewExpirable(NewAddress("node-a", 6727), 30*time.Second)

	assert.True(t, e.Valid())
	assert.Equal(t, NewAddress("node-a", 6727), e.Value())

	expected := time.Now().Add(30 * time.Second)
	assert.WithinDuration(t, expected, e.ExpiresAt(), time.Second)
}

func TestExpirableLapses(t *testing.T) {
	e := NewExpirable("payload", 5*time.Millisecond)
	assert.True(t, e.Valid())

	time.Sleep(10 * time.Millisecond)
	assert.False(t, e.Valid())
	// value stays readable after the deadline
	assert.Equal(t, "payload", e.Value())
}

func TestExpirableNoDeadlineNeverValid(t *testing.T) {
	e := NewExpirableAt("payload", time.Time{})
	assert.False(t, e.Valid())
	assert.Equal(t, "payload", e.Value())
	assert.True(t, e.ExpiresAt().IsZero())
}

func TestExpirableDeadlineFixedAtConstruction(t *testing.T) {
	e := NewExpirable(1, 20*time.Millisecond)
	first := e.ExpiresAt()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, first, e.ExpiresAt())
}
