package mesh

// MaxBatchSize is the number of vertices the microcode vertex cache holds.
const MaxBatchSize = 32

// Triangle holds three batch-local vertex indices.
type Triangle [3]uint32

// TriangleBatch is a set of vertex blocks and the triangles drawn from
// them. The blocks of a batch never hold more than MaxBatchSize vertices.
type TriangleBatch struct {
	Blocks    []VertexBlock
	Triangles []Triangle
}

// VertexCount returns the number of vertices uploaded for the batch.
func (b *TriangleBatch) VertexCount() uint32 {
	return vertexCount(b.Blocks)
}

// LocalIndex translates a global index assigned to block into a
// batch-local index.
func (b *TriangleBatch) LocalIndex(global uint32, block int) uint32 {
	return localIndex(b.Blocks, global, block)
}

// GlobalIndex maps a batch-local index back to the global vertex index.
// ok is false when local is beyond the batch's vertex count.
func (b *TriangleBatch) GlobalIndex(local uint32) (global uint32, ok bool) {
	for _, block := range b.Blocks {
		if local < block.N {
			return block.Offset + local, true
		}
		local -= block.N
	}
	return 0, false
}

// LoadIndex returns the local index at which each block's load begins.
func (b *TriangleBatch) LoadIndex() []uint32 {
	out := make([]uint32, len(b.Blocks))
	var v0 uint32
	for i, block := range b.Blocks {
		out[i] = v0
		v0 += block.N
	}
	return out
}

func vertexCount(blocks []VertexBlock) uint32 {
	var n uint32
	for _, block := range blocks {
		n += block.N
	}
	return n
}

func localIndex(blocks []VertexBlock, global uint32, block int) uint32 {
	return vertexCount(blocks[:block]) + global - blocks[block].Offset
}
