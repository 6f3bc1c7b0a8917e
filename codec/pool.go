package codec

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 1 << 20
	poolInitCap = 1024
)

// output buffer pool for encode contexts
var bufferPool = sync.Pool{
	New: func() any {
		return NewBuffer(poolInitCap)
	},
}

func getBuffer() *Buffer {
	return bufferPool.Get().(*Buffer)
}

func putBuffer(b *Buffer) {
	if b == nil || cap(b.buf) > poolMaxCap {
		return // reject oversized
	}
	b.Reset()
	b.MaxSize = 0
	bufferPool.Put(b)
}
