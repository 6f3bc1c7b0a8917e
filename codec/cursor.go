package codec

// Cursor reads from a borrowed input slice within a movable bound.
// Inner elements see only the bytes of their enclosing definite length.
type Cursor struct {
	data []byte
	pos  int
	end  int
}

// NewCursor returns a cursor over data. The slice is not copied.
func NewCursor(data []byte) Cursor {
	return Cursor{data: data, end: len(data)}
}

// Peek returns the next n bytes without consuming them.
func (r *Cursor) Peek(n int) ([]byte, bool) {
	if n < 0 || n > r.end-r.pos {
		return nil, false
	}
	return r.data[r.pos : r.pos+n], true
}

// Consume returns the next n bytes and advances past them.
func (r *Cursor) Consume(n int) ([]byte, bool) {
	p, ok := r.Peek(n)
	if ok {
		r.pos += n
	}
	return p, ok
}

// Remaining is the number of bytes left before the current bound.
func (r *Cursor) Remaining() int { return r.end - r.pos }

// Offset is the position relative to the start of the input.
func (r *Cursor) Offset() int { return r.pos }

// window returns the unread bytes within the current bound.
func (r *Cursor) window() []byte { return r.data[r.pos:r.end] }

// push narrows the bound to n bytes from the current position and
// returns the previous bound for pop.
func (r *Cursor) push(n int) int {
	prev := r.end
	r.end = r.pos + n
	return prev
}

func (r *Cursor) pop(prev int) { r.end = prev }

func (r *Cursor) rewind() {
	r.pos = 0
	r.end = len(r.data)
}
