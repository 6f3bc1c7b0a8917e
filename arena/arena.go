package arena

import (
	"reflect"

	asn1runtime "github.com/wippyai/asn1-runtime"
)

var _ asn1runtime.Allocator = (*Arena)(nil)

const (
	// WordSize is the alignment of every Alloc result.
	WordSize = 8

	defaultBlockSize = 4096
	maxBlockSize     = 1 << 20
)

type block struct {
	buf []byte
	off int
}

// Stats describes the memory held by an arena.
type Stats struct {
	// Allocated is the number of bytes handed out since the last reset.
	Allocated int
	// Peak is the largest Allocated value observed over the arena lifetime.
	Peak int
	// Capacity is the number of bytes reserved by blocks and slabs.
	Capacity int
	// Blocks counts byte blocks and slab chunks.
	Blocks int
}

// Arena is a growable block-based memory pool.
type Arena struct {
	blocks    []*block
	cur       int
	blockSize int
	limit     int
	allocated int
	peak      int
	slabs     map[reflect.Type]slabber
	live      bool
}

// Option configures an Arena.
type Option func(*Arena)

// WithBlockSize sets the size of the first block. Later blocks double.
func WithBlockSize(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.blockSize = alignUp(n)
		}
	}
}

// WithLimit caps the bytes the arena will hand out between resets.
// Callers check CanAlloc before allocating from untrusted sizes.
func WithLimit(n int) Option {
	return func(a *Arena) {
		a.limit = n
	}
}

// New creates an empty arena. No memory is reserved until the first allocation.
func New(opts ...Option) *Arena {
	a := &Arena{blockSize: defaultBlockSize}
	for _, opt := range opts {
		opt(a)
	}
	a.register()
	return a
}

func (a *Arena) register() {
	if !a.live {
		a.live = true
		track(1)
	}
}

func alignUp(n int) int {
	return (n + WordSize - 1) &^ (WordSize - 1)
}

// CanAlloc reports whether n more bytes fit under the configured limit.
func (a *Arena) CanAlloc(n int) bool {
	if a == nil || a.limit <= 0 {
		return true
	}
	return a.allocated+n <= a.limit
}

// Alloc returns n zeroed bytes aligned to WordSize. The memory stays valid
// until Reset or Destroy. A nil arena falls back to the Go heap.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if a == nil {
		return make([]byte, n)
	}
	a.register()

	for a.cur < len(a.blocks) {
		b := a.blocks[a.cur]
		start := alignUp(b.off)
		if start+n <= len(b.buf) {
			b.off = start + n
			a.account(n)
			return b.buf[start : start+n : start+n]
		}
		if a.cur == len(a.blocks)-1 {
			break
		}
		a.cur++
	}

	size := a.nextBlockSize()
	if n > size {
		size = alignUp(n)
	}
	b := &block{buf: make([]byte, size), off: n}
	a.blocks = append(a.blocks, b)
	a.cur = len(a.blocks) - 1
	a.account(n)
	return b.buf[0:n:n]
}

func (a *Arena) nextBlockSize() int {
	size := a.blockSize
	if size <= 0 {
		size = defaultBlockSize
	}
	for i := 0; i < len(a.blocks) && size < maxBlockSize; i++ {
		size <<= 1
	}
	if size > maxBlockSize {
		size = maxBlockSize
	}
	return size
}

func (a *Arena) account(n int) {
	a.allocated += n
	if a.allocated > a.peak {
		a.peak = a.allocated
	}
}

// Reset rewinds every block and slab. Capacity is retained and the memory
// is zeroed so the next pass sees fresh values.
func (a *Arena) Reset() {
	if a == nil {
		return
	}
	for i, b := range a.blocks {
		if i > a.cur {
			break
		}
		clear(b.buf[:b.off])
		b.off = 0
	}
	a.cur = 0
	for _, s := range a.slabs {
		s.reset()
	}
	a.allocated = 0
}

// Destroy releases all blocks and slabs. The arena may be used again
// afterwards and starts from nothing.
func (a *Arena) Destroy() {
	if a == nil {
		return
	}
	a.blocks = nil
	a.cur = 0
	a.slabs = nil
	a.allocated = 0
	if a.live {
		a.live = false
		track(-1)
	}
}

// Stats returns current usage figures.
func (a *Arena) Stats() Stats {
	if a == nil {
		return Stats{}
	}
	st := Stats{Allocated: a.allocated, Peak: a.peak}
	for _, b := range a.blocks {
		st.Capacity += len(b.buf)
		st.Blocks++
	}
	for _, s := range a.slabs {
		c, n := s.capacity()
		st.Capacity += c
		st.Blocks += n
	}
	return st
}
