package codec

import (
	stderrors "errors"
)

const minBufferCap = 256

// errBufferFull is returned by Buffer writes that would exceed MaxSize.
var errBufferFull = stderrors.New("codec: buffer full")

// Buffer is a growable output buffer with a movable write position.
// Bytes() covers everything up to the highest position ever written.
type Buffer struct {
	buf []byte
	pos int
	// MaxSize caps the buffer length; zero means unbounded.
	MaxSize int
}

// NewBuffer returns a buffer with room for n bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{buf: make([]byte, 0, n)}
}

// grow makes room for n bytes at the write position.
func (b *Buffer) grow(n int) error {
	need := b.pos + n
	if need <= len(b.buf) {
		return nil
	}
	if b.MaxSize > 0 && need > b.MaxSize {
		return errBufferFull
	}
	if need > cap(b.buf) {
		newCap := max(2*cap(b.buf), need, minBufferCap)
		if b.MaxSize > 0 && newCap > b.MaxSize {
			newCap = b.MaxSize
		}
		nb := make([]byte, len(b.buf), newCap)
		copy(nb, b.buf)
		b.buf = nb
	}
	b.buf = b.buf[:need]
	return nil
}

// Write copies p at the write position and advances it.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.grow(len(p)); err != nil {
		return 0, err
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

// WriteByte writes a single byte at the write position.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.buf[b.pos] = c
	b.pos++
	return nil
}

// Mark returns the current write position.
func (b *Buffer) Mark() int { return b.pos }

// Seek moves the write position to off, which must lie within Bytes().
func (b *Buffer) Seek(off int) {
	if off < 0 {
		off = 0
	}
	if off > len(b.buf) {
		off = len(b.buf)
	}
	b.pos = off
}

// Len is the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Bytes returns the written bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.buf }

// Reset empties the buffer and keeps its capacity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.pos = 0
}

// ReserveLength writes n placeholder length octets and returns their position.
func (b *Buffer) ReserveLength(n int) (int, error) {
	mark := b.pos
	if err := b.grow(n); err != nil {
		return 0, err
	}
	clear(b.buf[mark : mark+n])
	b.pos += n
	return mark, nil
}

// PatchLength writes the minimal length of the content between the
// reserved octets at mark and the write position. Content is shifted in
// place when the minimal form is not exactly reserved octets long.
func (b *Buffer) PatchLength(mark, reserved int) error {
	start := mark + reserved
	content := b.pos - start
	need := lengthSize(content)
	if delta := need - reserved; delta != 0 {
		if err := b.shift(start, delta); err != nil {
			return err
		}
	}
	var tmp [8]byte
	copy(b.buf[mark:], AppendLength(tmp[:0], content))
	return nil
}

// shift moves buf[at:pos] by delta bytes and adjusts the write position.
func (b *Buffer) shift(at, delta int) error {
	end := b.pos
	if delta > 0 {
		// grow works from pos, so extend from the current end.
		if err := b.grow(delta); err != nil {
			return err
		}
		copy(b.buf[at+delta:], b.buf[at:end])
	} else {
		copy(b.buf[at+delta:], b.buf[at:end])
		if len(b.buf) == end {
			b.buf = b.buf[:end+delta]
		}
	}
	b.pos = end + delta
	return nil
}
