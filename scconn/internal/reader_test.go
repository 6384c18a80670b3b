package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBufferFillAndConsume(t *testing.T) {
	src := bytes.NewReader([]byte("abcdefgh"))
	b := NewReadBuffer(src, 4, 16)

	_, err := b.Fill()
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []byte("abcd"), b.Data())

	out := make([]byte, 2)
	b.Consume(1, 2, out) // skip 'a', take "bc"
	assert.Equal(t, []byte("bc"), out)
	assert.Equal(t, 1, b.Len())
}

func TestReadBufferGrows(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 12)
	b := NewReadBuffer(bytes.NewReader(payload), 4, 16)

	for b.Len() < len(payload) {
		_, err := b.Fill()
		require.NoError(t, err)
	}
	assert.Equal(t, payload, b.Data())
}

func TestReadBufferTooLarge(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 32)
	b := NewReadBuffer(bytes.NewReader(payload), 4, 8)

	var err error
	for err == nil {
		_, err = b.Fill()
	}
	assert.ErrorIs(t, err, ErrTooLarge)
}
