package ugfx

import "github.com/Faultbox/mc64/pkg/mesh"

// BatchCommands appends the loads and draws of one batch to cmds.
func BatchCommands(cmds []Command, batch *mesh.TriangleBatch) []Command {
	var v0 uint32
	for _, block := range batch.Blocks {
		cmds = append(cmds, LoadVertices(VertexSlot, block.Offset*mesh.VertexSize, uint8(v0), uint8(block.N)))
		v0 += block.N
	}
	for _, tri := range batch.Triangles {
		cmds = append(cmds, DrawTriangle(uint8(tri[0]), uint8(tri[1]), uint8(tri[2])))
	}
	return cmds
}

// CommandList returns the full command list of a mesh: every batch in
// order followed by a single finalize.
func CommandList(m *mesh.Mesh) []Command {
	n := 1
	for i := range m.Batches {
		n += len(m.Batches[i].Blocks) + len(m.Batches[i].Triangles)
	}

	cmds := make([]Command, 0, n)
	for i := range m.Batches {
		cmds = BatchCommands(cmds, &m.Batches[i])
	}
	return append(cmds, Finalize())
}

// Stats summarizes a command list.
type Stats struct {
	Loads     int
	Draws     int
	Finalizes int
	Unknown   int

	// Batches counts runs of loads that follow draws, i.e. cache refills.
	Batches int

	// VerticesLoaded is the total count over all load instructions.
	VerticesLoaded int
}

// Analyze counts instructions by kind.
func Analyze(cmds []Command) Stats {
	var s Stats
	drawn := true
	for _, c := range cmds {
		switch c.Opcode() {
		case OpLoadVertices:
			if drawn {
				s.Batches++
				drawn = false
			}
			l, _ := c.Load()
			s.Loads++
			s.VerticesLoaded += int(l.Count)
		case OpDrawTriangle:
			s.Draws++
			drawn = true
		case OpFinalize:
			s.Finalizes++
		default:
			s.Unknown++
		}
	}
	return s
}
