package arena

import (
	"reflect"
	"unsafe"
)

const (
	slabChunkElems    = 32
	slabMaxChunkElems = 4096
)

type slabber interface {
	reset()
	capacity() (bytes, chunks int)
}

// slab hands out elements of one Go type. Chunks are never reallocated, so
// pointers to handed-out elements stay valid until reset.
type slab[T any] struct {
	chunks [][]T
	cur    int
	off    int
	elem   int
}

func (s *slab[T]) alloc(n int) []T {
	for s.cur < len(s.chunks) {
		ch := s.chunks[s.cur]
		if s.off+n <= len(ch) {
			out := ch[s.off : s.off+n : s.off+n]
			s.off += n
			return out
		}
		if s.cur == len(s.chunks)-1 {
			break
		}
		s.cur++
		s.off = 0
	}

	size := slabChunkElems << len(s.chunks)
	if size > slabMaxChunkElems || size <= 0 {
		size = slabMaxChunkElems
	}
	if n > size {
		size = n
	}
	ch := make([]T, size)
	s.chunks = append(s.chunks, ch)
	s.cur = len(s.chunks) - 1
	s.off = n
	return ch[0:n:n]
}

func (s *slab[T]) reset() {
	for i, ch := range s.chunks {
		if i > s.cur {
			break
		}
		clear(ch)
	}
	s.cur = 0
	s.off = 0
}

func (s *slab[T]) capacity() (int, int) {
	total := 0
	for _, ch := range s.chunks {
		total += len(ch) * s.elem
	}
	return total, len(s.chunks)
}

func slabFor[T any](a *Arena) *slab[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := a.slabs[t]; ok {
		return s.(*slab[T])
	}
	if a.slabs == nil {
		a.slabs = make(map[reflect.Type]slabber)
	}
	var zero T
	s := &slab[T]{elem: int(unsafe.Sizeof(zero))}
	a.slabs[t] = s
	return s
}

// Make returns a pointer to a zero T owned by the arena. A nil arena falls
// back to new(T).
func Make[T any](a *Arena) *T {
	if a == nil {
		return new(T)
	}
	a.register()
	s := slabFor[T](a)
	a.account(s.elem)
	return &s.alloc(1)[0]
}

// MakeSlice returns n zero elements of T owned by the arena. The result has
// capacity n so appending to it never touches neighbouring allocations.
func MakeSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if a == nil {
		return make([]T, n)
	}
	a.register()
	s := slabFor[T](a)
	a.account(s.elem * n)
	return s.alloc(n)
}
