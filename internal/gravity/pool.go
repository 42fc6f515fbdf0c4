package gravity

import "sync"

// BufferPool recycles fixed-size float64 scratch slices between ticks.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *BufferPool) Size() int { return p.size }

func (p *BufferPool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (p *BufferPool) Put(s []float64) {
	if len(s) == p.size {
		p.pool.Put(s)
	}
}
