package arena

import (
	"testing"
	"unsafe"
)

func TestArena_AllocAlignment(t *testing.T) {
	a := New(WithBlockSize(64))
	defer a.Destroy()

	sizes := []int{1, 3, 8, 13, 40, 7}
	for _, n := range sizes {
		b := a.Alloc(n)
		if len(b) != n {
			t.Fatalf("Alloc(%d) returned %d bytes", n, len(b))
		}
		if cap(b) != n {
			t.Errorf("Alloc(%d) capacity = %d, want %d", n, cap(b), n)
		}
		if addr := uintptr(unsafe.Pointer(&b[0])); addr%WordSize != 0 {
			t.Errorf("Alloc(%d) address %#x not aligned to %d", n, addr, WordSize)
		}
	}
}

func TestArena_AllocDoesNotOverlap(t *testing.T) {
	a := New(WithBlockSize(32))
	defer a.Destroy()

	var bufs [][]byte
	for i := 0; i < 50; i++ {
		b := a.Alloc(5)
		for j := range b {
			b[j] = byte(i)
		}
		bufs = append(bufs, b)
	}
	for i, b := range bufs {
		for _, v := range b {
			if v != byte(i) {
				t.Fatalf("allocation %d was overwritten: %v", i, b)
			}
		}
	}
}

func TestArena_AllocZeroLength(t *testing.T) {
	a := New()
	defer a.Destroy()

	b := a.Alloc(0)
	if b == nil {
		t.Fatal("Alloc(0) must return a non-nil empty slice")
	}
	if len(b) != 0 {
		t.Errorf("len = %d, want 0", len(b))
	}
}

func TestArena_LargeAllocation(t *testing.T) {
	a := New(WithBlockSize(64))
	defer a.Destroy()

	b := a.Alloc(10000)
	if len(b) != 10000 {
		t.Fatalf("len = %d, want 10000", len(b))
	}
	st := a.Stats()
	if st.Capacity < 10000 {
		t.Errorf("Capacity = %d, want >= 10000", st.Capacity)
	}
}

func TestArena_ResetZeroesAndReuses(t *testing.T) {
	a := New(WithBlockSize(64))
	defer a.Destroy()

	b := a.Alloc(16)
	for i := range b {
		b[i] = 0xAA
	}
	before := a.Stats().Capacity

	a.Reset()
	if a.Stats().Allocated != 0 {
		t.Errorf("Allocated after reset = %d, want 0", a.Stats().Allocated)
	}

	c := a.Alloc(16)
	for i, v := range c {
		if v != 0 {
			t.Fatalf("byte %d = %#x after reset, want 0", i, v)
		}
	}
	if a.Stats().Capacity != before {
		t.Errorf("Capacity changed across reset: %d -> %d", before, a.Stats().Capacity)
	}
}

func TestArena_ResetStability(t *testing.T) {
	a := New(WithBlockSize(128))
	defer a.Destroy()

	type node struct {
		Next  *node
		Value []byte
	}

	var capacities []int
	for iter := 0; iter < 1000; iter++ {
		var head *node
		for i := 0; i < 40; i++ {
			n := Make[node](a)
			n.Value = a.Alloc(24)
			n.Next = head
			head = n
		}
		_ = MakeSlice[*node](a, 40)
		capacities = append(capacities, a.Stats().Capacity)
		a.Reset()
	}

	settled := capacities[4]
	for i := 5; i < len(capacities); i++ {
		if capacities[i] != settled {
			t.Fatalf("capacity grew at iteration %d: %d -> %d", i, settled, capacities[i])
		}
	}
	if a.Stats().Peak == 0 {
		t.Error("Peak should record usage")
	}
}

func TestMake_PointersStableAcrossGrowth(t *testing.T) {
	a := New()
	defer a.Destroy()

	ptrs := make([]*int64, 0, 500)
	for i := 0; i < 500; i++ {
		p := Make[int64](a)
		*p = int64(i)
		ptrs = append(ptrs, p)
	}
	for i, p := range ptrs {
		if *p != int64(i) {
			t.Fatalf("element %d = %d", i, *p)
		}
	}
}

func TestMake_ResetClearsValues(t *testing.T) {
	a := New()
	defer a.Destroy()

	p := Make[string](a)
	*p = "hello"
	a.Reset()
	q := Make[string](a)
	if *q != "" {
		t.Errorf("value after reset = %q, want empty", *q)
	}
}

func TestMakeSlice(t *testing.T) {
	a := New()
	defer a.Destroy()

	s := MakeSlice[int](a, 10)
	if len(s) != 10 || cap(s) != 10 {
		t.Fatalf("len=%d cap=%d, want 10/10", len(s), cap(s))
	}
	t2 := MakeSlice[int](a, 3)
	s = append(s, 99)
	for _, v := range t2 {
		if v != 0 {
			t.Fatal("append on one slice clobbered a neighbour")
		}
	}

	empty := MakeSlice[int](a, 0)
	if empty == nil || len(empty) != 0 {
		t.Errorf("MakeSlice(0) = %v, want non-nil empty", empty)
	}
}

func TestNilArena(t *testing.T) {
	var a *Arena
	if b := a.Alloc(4); len(b) != 4 {
		t.Errorf("nil Alloc len = %d", len(b))
	}
	if p := Make[int](a); p == nil {
		t.Error("nil Make returned nil")
	}
	if s := MakeSlice[int](a, 2); len(s) != 2 {
		t.Errorf("nil MakeSlice len = %d", len(s))
	}
	a.Reset()
	a.Destroy()
	if a.Stats() != (Stats{}) {
		t.Error("nil Stats should be zero")
	}
}

func TestArena_Limit(t *testing.T) {
	a := New(WithLimit(100))
	defer a.Destroy()

	if !a.CanAlloc(100) {
		t.Error("CanAlloc(100) should fit the limit")
	}
	a.Alloc(60)
	if a.CanAlloc(50) {
		t.Error("CanAlloc(50) should exceed the limit after 60 bytes")
	}
	a.Reset()
	if !a.CanAlloc(50) {
		t.Error("CanAlloc(50) should fit after reset")
	}
}

func TestOutstanding(t *testing.T) {
	base := Outstanding()

	a := New()
	b := New()
	if got := Outstanding(); got != base+2 {
		t.Fatalf("Outstanding = %d, want %d", got, base+2)
	}

	a.Destroy()
	a.Destroy()
	if got := Outstanding(); got != base+1 {
		t.Fatalf("Outstanding after double destroy = %d, want %d", got, base+1)
	}

	a.Alloc(8)
	if got := Outstanding(); got != base+2 {
		t.Fatalf("Outstanding after reuse = %d, want %d", got, base+2)
	}
	a.Destroy()
	b.Destroy()
	if got := Outstanding(); got != base {
		t.Fatalf("Outstanding = %d, want %d", got, base)
	}
}
