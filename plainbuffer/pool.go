package plainbuffer

import (
	"bytes"
	"sync"
)

// bufferPool is a pool of *bytes.Buffer, mirroring the shape of the
// teacher's pkg/pools package: a single sync.Pool wrapped with Get/Put
// so every row encode doesn't allocate a fresh scratch buffer on the
// hot path. Callers must Reset the buffer after Get and before use.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *bytes.Buffer {
	if v := p.pool.Get(); v != nil {
		return v.(*bytes.Buffer)
	}
	return new(bytes.Buffer)
}

func (p *bufferPool) Put(buf *bytes.Buffer) {
	p.pool.Put(buf)
}

// RowBufferPool is the shared scratch-buffer pool used while encoding
// PlainBuffer values and rows.
var RowBufferPool = &bufferPool{}
