package netcore

import "encoding/binary"

// HeaderCodec frames message bodies on the wire. Decode inspects buffered
// bytes and reports the body length and header length; a headerLen of 0
// means the header is not complete yet.
type HeaderCodec interface {
	Encode(body []byte) []byte
	Decode(buf []byte) (bodyLen, headerLen uint32)
}

const lengthFieldSize = 4

// lengthFieldCodec prefixes every body with its length as a 4-byte
// big-endian integer.
type lengthFieldCodec struct{}

func NewLengthFieldCodec() HeaderCodec {
	return lengthFieldCodec{}
}

func (lengthFieldCodec) Encode(body []byte) []byte {
	out := make([]byte, lengthFieldSize+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[lengthFieldSize:], body)
	return out
}

func (lengthFieldCodec) Decode(buf []byte) (bodyLen, headerLen uint32) {
	if len(buf) < lengthFieldSize {
		return 0, 0
	}
	return binary.BigEndian.Uint32(buf), lengthFieldSize
}
