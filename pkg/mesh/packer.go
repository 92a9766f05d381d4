package mesh

// Packer assigns triangles to batches.
//
// Each triangle is added to the current batch if its three vertices can
// be covered by growing existing blocks, or by opening new ones, without
// exceeding MaxBatchSize. Otherwise the batch is closed and the triangle
// starts a new one. Triangles are handled strictly in source order.
type Packer struct {
	Fit Fit

	batches []TriangleBatch
	blocks  []VertexBlock
	pending []pendingFace
}

// pendingFace is an accepted triangle whose local indices are resolved
// when its batch is closed, since later insertions may still move blocks.
type pendingFace struct {
	face     [3]uint32
	assigned [3]int
}

// Pack splits faces (global vertex indices) into batches.
func Pack(faces [][3]uint32, fit Fit) []TriangleBatch {
	p := &Packer{Fit: fit}
	for _, f := range faces {
		p.Add(f)
	}
	return p.Finish()
}

// Add places one triangle.
func (p *Packer) Add(face [3]uint32) {
	next, assigned, ok := tryAdd(p.blocks, face, p.Fit)
	if !ok {
		p.flush()
		// A single triangle always fits an empty batch.
		next, assigned, _ = tryAdd(nil, face, p.Fit)
	}
	p.blocks = next
	p.pending = append(p.pending, pendingFace{face: face, assigned: assigned})
}

// Finish closes the current batch and returns all batches. The packer is
// reset and can be reused.
func (p *Packer) Finish() []TriangleBatch {
	p.flush()
	out := p.batches
	p.batches = nil
	return out
}

func (p *Packer) flush() {
	if len(p.pending) == 0 {
		return
	}

	batch := TriangleBatch{
		Blocks:    p.blocks,
		Triangles: make([]Triangle, len(p.pending)),
	}
	for i, pf := range p.pending {
		for j := range 3 {
			batch.Triangles[i][j] = localIndex(batch.Blocks, pf.face[j], pf.assigned[j])
		}
	}

	p.batches = append(p.batches, batch)
	p.blocks = nil
	p.pending = nil
}

// tryAdd places face into a copy of blocks. It returns the grown copy and
// the block each vertex landed in, or ok=false if the result would exceed
// MaxBatchSize. blocks is never modified.
func tryAdd(blocks []VertexBlock, face [3]uint32, fit Fit) (next []VertexBlock, assigned [3]int, ok bool) {
	next = make([]VertexBlock, len(blocks), len(blocks)+3)
	copy(next, blocks)

	for i, index := range face {
		reserve := uint32(2 - i)
		b := findBestFit(next, index, reserve, fit)
		if b < 0 {
			b = len(next)
			next = append(next, VertexBlock{Offset: index, N: 1})
		} else {
			next[b].Insert(index)
		}
		assigned[i] = b
	}

	if vertexCount(next) > MaxBatchSize {
		return nil, assigned, false
	}
	return next, assigned, true
}

// findBestFit returns the first block whose grown size is smallest while
// leaving room for reserve more vertices, or -1.
func findBestFit(blocks []VertexBlock, index, reserve uint32, fit Fit) int {
	best := -1
	var bestSize uint32
	for i, block := range blocks {
		size := block.sizeFor(index, fit)
		if size+reserve > MaxBatchSize {
			continue
		}
		if best < 0 || size < bestSize {
			best = i
			bestSize = size
		}
	}
	return best
}
