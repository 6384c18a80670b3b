package netcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	assert.Equal(t, "node-a:6727", NewAddress("node-a", 6727).String())
	assert.Equal(t, "[::1]:6727", NewAddress("::1", 6727).String())
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("node-a:6727")
	require.NoError(t, err)
	assert.Equal(t, NewAddress("node-a", 6727), addr)

	_, err = ParseAddress("no-port")
	assert.Error(t, err)

	_, err = ParseAddress("node-a:notaport")
	assert.Error(t, err)
}

func TestAddressAsMapKey(t *testing.T) {
	m := map[Address]string{
		NewAddress("node-a", 6727): "a",
		NewAddress("node-a", 6728): "b",
	}
	assert.Equal(t, "a", m[NewAddress("node-a", 6727)])
	assert.Equal(t, "b", m[NewAddress("node-a", 6728)])
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, NewAddress("node-a", 6727).IsZero())
}

func TestLengthFieldCodec(t *testing.T) {
	codec := NewLengthFieldCodec()

	framed := codec.Encode([]byte("hello"))
	bodyLen, headerLen := codec.Decode(framed)
	assert.Equal(t, uint32(5), bodyLen)
	assert.Equal(t, uint32(4), headerLen)
	assert.Equal(t, []byte("hello"), framed[headerLen:])

	// incomplete header
	bodyLen, headerLen = codec.Decode(framed[:3])
	assert.Zero(t, bodyLen)
	assert.Zero(t, headerLen)
}
