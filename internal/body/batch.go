package body

import "fmt"

// ID is a stable external handle for a body. It survives removals of other
// bodies and is never reused within the lifetime of a Batch.
type ID uint32

// Batch is a dense struct-of-arrays store for simulated bodies. Slots are
// addressed by integer index in the hot loops; the id<->index mapping is kept
// here so callers can hold stable handles while the kernel works on indices.
// Removed slots go on a free list and are reused by later Adds.
type Batch struct {
	Dim int

	Pos    []float64 // stride Dim, meters
	Vel    []float64 // stride Dim, m/s
	Mass   []float64 // kg
	Radius []float64 // meters
	Temp   []float64 // kelvin

	alive []bool
	ids   []ID
	index map[ID]int
	free  []int
	next  ID
}

// State describes one body at insertion time. Pos and Vel must have the
// batch's dimension.
type State struct {
	Pos    []float64
	Vel    []float64
	Mass   float64
	Radius float64
	Temp   float64
}

func NewBatch(dim int) *Batch {
	if dim != 2 && dim != 3 {
		panic(fmt.Sprintf("body: dim must be 2 or 3, got %d", dim))
	}
	return &Batch{
		Dim:   dim,
		index: make(map[ID]int),
		next:  1,
	}
}

// Add inserts a body and returns its stable id. Mass must be positive.
func (b *Batch) Add(s State) ID {
	if s.Mass <= 0 {
		panic(fmt.Sprintf("body: non-positive mass %g", s.Mass))
	}
	if len(s.Pos) != b.Dim || len(s.Vel) != b.Dim {
		panic(fmt.Sprintf("body: state dim mismatch (batch dim %d)", b.Dim))
	}

	var slot int
	if n := len(b.free); n > 0 {
		slot = b.free[n-1]
		b.free = b.free[:n-1]
	} else {
		slot = len(b.Mass)
		b.Pos = append(b.Pos, make([]float64, b.Dim)...)
		b.Vel = append(b.Vel, make([]float64, b.Dim)...)
		b.Mass = append(b.Mass, 0)
		b.Radius = append(b.Radius, 0)
		b.Temp = append(b.Temp, 0)
		b.alive = append(b.alive, false)
		b.ids = append(b.ids, 0)
	}

	copy(b.Pos[slot*b.Dim:], s.Pos)
	copy(b.Vel[slot*b.Dim:], s.Vel)
	b.Mass[slot] = s.Mass
	b.Radius[slot] = s.Radius
	b.Temp[slot] = s.Temp

	id := b.next
	b.next++
	b.ids[slot] = id
	b.alive[slot] = true
	b.index[id] = slot
	return id
}

// Slots returns the number of slots in the arena, live or not. Valid indices
// are [0, Slots()); callers must check Alive before touching a slot.
func (b *Batch) Slots() int { return len(b.Mass) }

// Len returns the number of live bodies.
func (b *Batch) Len() int { return len(b.index) }

func (b *Batch) Alive(i int) bool { return b.alive[i] }

// IDOf returns the stable id of the body in slot i.
func (b *Batch) IDOf(i int) ID { return b.ids[i] }

// IndexOf resolves an id to its current slot.
func (b *Batch) IndexOf(id ID) (int, bool) {
	i, ok := b.index[id]
	return i, ok
}

// Get copies the body with the given id into a State. The returned slices
// alias the batch arrays and are only valid until the next mutation.
func (b *Batch) Get(id ID) (State, bool) {
	i, ok := b.index[id]
	if !ok {
		return State{}, false
	}
	return State{
		Pos:    b.Pos[i*b.Dim : i*b.Dim+b.Dim],
		Vel:    b.Vel[i*b.Dim : i*b.Dim+b.Dim],
		Mass:   b.Mass[i],
		Radius: b.Radius[i],
		Temp:   b.Temp[i],
	}, true
}

// Remove retires the body with the given id. Its slot goes on the free list
// and will not be seen by subsequent ticks.
func (b *Batch) Remove(id ID) bool {
	i, ok := b.index[id]
	if !ok {
		return false
	}
	b.RemoveIndex(i)
	return true
}

// RemoveIndex retires the body in slot i.
func (b *Batch) RemoveIndex(i int) {
	if !b.alive[i] {
		return
	}
	delete(b.index, b.ids[i])
	b.alive[i] = false
	b.Mass[i] = 0
	b.free = append(b.free, i)
}

// Live appends the indices of all live bodies to out and returns it.
func (b *Batch) Live(out []int) []int {
	for i, ok := range b.alive {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
