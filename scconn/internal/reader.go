package internal

import (
	"errors"
	"io"
)

var ErrTooLarge = errors.New("ReadBuffer: too large")

// ReadBuffer accumulates bytes from a reader until a full frame is
// buffered. Data lives in buf[head:tail); the buffer doubles up to max.
type ReadBuffer struct {
	reader io.Reader
	buf    []byte
	max    int
	head   int
	tail   int
}

func NewReadBuffer(reader io.Reader, size, max int) *ReadBuffer {
	return &ReadBuffer{
		reader: reader,
		buf:    make([]byte, size),
		max:    max,
	}
}

func (b *ReadBuffer) Release() {
	b.reader = nil
	b.buf = nil
}

func (b *ReadBuffer) Len() int {
	return b.tail - b.head
}

func (b *ReadBuffer) Data() []byte {
	return b.buf[b.head:b.tail]
}

// Consume discards offset bytes, then copies n bytes into out.
// Requires b.Len() >= offset+n.
func (b *ReadBuffer) Consume(offset, n int, out []byte) {
	b.head += offset
	copy(out, b.buf[b.head:b.head+n])
	b.head += n
}

// Fill performs one read from the underlying reader into free space,
// growing the buffer up to max first.
func (b *ReadBuffer) Fill() (int, error) {
	if !b.reserve() {
		return 0, ErrTooLarge
	}
	n, err := b.reader.Read(b.buf[b.tail:])
	if err != nil {
		return n, err
	}
	b.tail += n
	return n, nil
}

// reserve makes room at the tail: compacts consumed space first, then
// doubles the buffer, refusing to pass max.
func (b *ReadBuffer) reserve() bool {
	if b.head > 0 {
		if b.head == b.tail {
			b.head, b.tail = 0, 0
		} else {
			copy(b.buf, b.buf[b.head:b.tail])
			b.tail -= b.head
			b.head = 0
		}
	}
	if b.tail < len(b.buf) {
		return true
	}
	if b.tail >= b.max {
		return false
	}
	grown := len(b.buf) * 2
	if grown > b.max {
		grown = b.max
	}
	next := make([]byte, grown)
	copy(next, b.buf[:b.tail])
	b.buf = next
	return true
}
