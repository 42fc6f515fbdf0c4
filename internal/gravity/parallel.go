package gravity

import (
	"math"
	"runtime"
	"sync"

	"github.com/kossner/accrete/internal/body"
)

// ParallelDirect splits the direct force pass across worker goroutines. Each
// worker owns a disjoint range of bodies and computes their full sums, so no
// two goroutines write the same slot. Results are identical to Direct for the
// same input; the pairwise halving is given up in exchange for parallelism.
type ParallelDirect struct {
	Workers int // <= 0 means GOMAXPROCS
}

func (p ParallelDirect) Accelerations(acc []float64, live []int, b *body.Batch, c Constants) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(live) < 2*workers {
		Direct{}.Accelerations(acc, live, b, c)
		return
	}

	dim := b.Dim
	chunk := (len(live) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(live); start += chunk {
		end := start + chunk
		if end > len(live) {
			end = len(live)
		}
		wg.Add(1)
		go func(part []int) {
			defer wg.Done()
			var dr [3]float64
			for _, i := range part {
				base := i * dim
				for d := 0; d < dim; d++ {
					acc[base+d] = 0
				}
				for _, j := range live {
					if j == i {
						continue
					}
					r2 := 0.0
					for d := 0; d < dim; d++ {
						dr[d] = b.Pos[j*dim+d] - b.Pos[i*dim+d]
						r2 += dr[d] * dr[d]
					}
					if r2 == 0 {
						continue
					}
					f := c.G * b.Mass[j] / (r2 * math.Sqrt(r2))
					for d := 0; d < dim; d++ {
						acc[base+d] += f * dr[d]
					}
				}
			}
		}(live[start:end])
	}
	wg.Wait()
}

type pipeResult struct {
	acc, pos, mass []float64
}

// Pipelined double-buffers another solver: each call returns the
// accelerations computed from the previous call's snapshot while a background
// goroutine evaluates the current one. Consumers see forces that are one
// evaluation stale, buying parallel throughput without ever sharing the live
// batch with a second writer. The first call is evaluated synchronously.
type Pipelined struct {
	inner Solver
	dim   int

	accPool  *BufferPool
	posPool  *BufferPool
	massPool *BufferPool

	resCh    chan pipeResult
	pending  bool
	liveSnap []int
}

func NewPipelined(inner Solver, dim int) *Pipelined {
	return &Pipelined{
		inner: inner,
		dim:   dim,
		resCh: make(chan pipeResult, 1),
	}
}

func (p *Pipelined) ensurePools(slots int) {
	vec := slots * p.dim
	if p.accPool == nil || p.accPool.Size() != vec {
		p.accPool = NewBufferPool(vec)
		p.posPool = NewBufferPool(vec)
		p.massPool = NewBufferPool(slots)
	}
}

func (p *Pipelined) Accelerations(acc []float64, live []int, b *body.Batch, c Constants) {
	if p.pending {
		res := <-p.resCh
		p.pending = false
		dim := p.dim
		for _, i := range live {
			base := i * dim
			if base+dim <= len(res.acc) {
				copy(acc[base:base+dim], res.acc[base:base+dim])
			}
		}
		p.accPool.Put(res.acc)
		p.posPool.Put(res.pos)
		p.massPool.Put(res.mass)
	} else {
		p.inner.Accelerations(acc, live, b, c)
	}

	// Snapshot positions and masses, then evaluate in the background. The
	// snapshot batch shares nothing with the caller's, so the tick is free to
	// mutate positions while the goroutine runs. liveSnap is safe to reuse:
	// the next call always drains resCh before touching it.
	p.ensurePools(b.Slots())
	pos := p.posPool.Get()
	mass := p.massPool.Get()
	copy(pos, b.Pos)
	copy(mass, b.Mass)
	p.liveSnap = append(p.liveSnap[:0], live...)

	out := p.accPool.Get()
	snap := &body.Batch{Dim: b.Dim, Pos: pos, Mass: mass}
	cc := c
	go func() {
		p.inner.Accelerations(out, p.liveSnap, snap, cc)
		p.resCh <- pipeResult{acc: out, pos: pos, mass: mass}
	}()
	p.pending = true
}

// Drain waits for any in-flight background evaluation. Call it before
// discarding a Pipelined solver.
func (p *Pipelined) Drain() {
	if p.pending {
		res := <-p.resCh
		p.pending = false
		p.accPool.Put(res.acc)
		p.posPool.Put(res.pos)
		p.massPool.Put(res.mass)
	}
}
