package asn1runtime

// Allocator is the arena boundary the codec consumes: create happens
// outside, the codec only allocates, and the owner resets or destroys.
type Allocator interface {
	Alloc(n int) []byte
	Reset()
	Destroy()
}

// CompleteFunc reports whether buf holds one complete framed unit.
// It returns the unit length when complete, 0 with a nil error when more
// bytes are needed, and an error when buf does not start a unit of this
// framing at all.
type CompleteFunc func(buf []byte) (int, error)
