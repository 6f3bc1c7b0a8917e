// Package arena provides the block allocator that owns every value produced
// by one decode pass (or built for one encode pass).
//
// An Arena is an append-only chain of memory blocks. Allocations are never
// freed individually: Reset rewinds every block so the next pass reuses the
// same backing memory, and Destroy releases everything. Peak memory of a
// decode loop that resets between messages therefore stabilizes after the
// first few iterations.
//
// Raw bytes come from Alloc. Go values that hold pointers cannot live in a
// byte block, so Make and MakeSlice hand out elements of per-type slabs that
// the arena owns with the same reset and destroy lifetime.
//
//	a := arena.New()
//	defer a.Destroy()
//	for _, msg := range messages {
//	    v := arena.Make[Record](a)
//	    v.Payload = a.Alloc(len(msg))
//	    ...
//	    a.Reset()
//	}
//
// # Thread Safety
//
// An Arena is not safe for concurrent use. The process-wide count of
// outstanding arenas (see Outstanding) is guarded by a mutex.
package arena
