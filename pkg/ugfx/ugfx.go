// Package ugfx encodes the 64-bit instructions of the ugfx graphics
// microcode and builds the command list that draws a packed mesh.
package ugfx

import "fmt"

// Opcode identifies an instruction.
type Opcode uint8

// Opcodes used by mesh command lists.
const (
	OpFinalize     Opcode = 0x80
	OpLoadVertices Opcode = 0x81
	OpDrawTriangle Opcode = 0x8D
)

// String returns the instruction name.
func (op Opcode) String() string {
	switch op {
	case OpFinalize:
		return "finalize"
	case OpLoadVertices:
		return "load_vertices"
	case OpDrawTriangle:
		return "draw_triangle"
	default:
		return fmt.Sprintf("op_%02x", uint8(op))
	}
}

// VertexSlot is the upload slot used for mesh vertex loads.
const VertexSlot = 1

// Field masks and shifts.
const (
	opcodeShift = 56
	opcodeMask  = 0xFF

	loadCountShift  = 44
	loadIndexShift  = 36
	loadSlotShift   = 28
	loadOffsetShift = 0
	loadCountMask   = 0x3F
	loadIndexMask   = 0x3F
	loadSlotMask    = 0xF
	loadOffsetMask  = 0x1FFFFFF

	drawV0Shift = 49
	drawV1Shift = 43
	drawV2Shift = 37
	drawIdxMask = 0x3F
)

// Command is one 64-bit microcode instruction.
type Command uint64

func field(x, mask uint64, shift uint) Command {
	return Command((x & mask) << shift)
}

func (c Command) get(mask uint64, shift uint) uint64 {
	return (uint64(c) >> shift) & mask
}

// Finalize ends a command list.
func Finalize() Command {
	return field(uint64(OpFinalize), opcodeMask, opcodeShift)
}

// LoadVertices uploads count vertices starting at byteOffset in the vertex
// table into the cache, beginning at local index.
func LoadVertices(slot uint8, byteOffset uint32, index, count uint8) Command {
	return field(uint64(OpLoadVertices), opcodeMask, opcodeShift) |
		field(uint64(count), loadCountMask, loadCountShift) |
		field(uint64(index), loadIndexMask, loadIndexShift) |
		field(uint64(slot), loadSlotMask, loadSlotShift) |
		field(uint64(byteOffset), loadOffsetMask, loadOffsetShift)
}

// DrawTriangle draws a triangle from three cached vertices.
func DrawTriangle(v0, v1, v2 uint8) Command {
	return field(uint64(OpDrawTriangle), opcodeMask, opcodeShift) |
		field(uint64(v0), drawIdxMask, drawV0Shift) |
		field(uint64(v1), drawIdxMask, drawV1Shift) |
		field(uint64(v2), drawIdxMask, drawV2Shift)
}

// Opcode returns the instruction opcode.
func (c Command) Opcode() Opcode {
	return Opcode(c.get(opcodeMask, opcodeShift))
}

// Load holds the decoded fields of a load_vertices instruction.
type Load struct {
	Slot       uint8
	ByteOffset uint32
	Index      uint8
	Count      uint8
}

// Load decodes a load_vertices instruction. ok is false for other opcodes.
func (c Command) Load() (l Load, ok bool) {
	if c.Opcode() != OpLoadVertices {
		return Load{}, false
	}
	return Load{
		Slot:       uint8(c.get(loadSlotMask, loadSlotShift)),
		ByteOffset: uint32(c.get(loadOffsetMask, loadOffsetShift)),
		Index:      uint8(c.get(loadIndexMask, loadIndexShift)),
		Count:      uint8(c.get(loadCountMask, loadCountShift)),
	}, true
}

// Triangle decodes a draw_triangle instruction. ok is false for other
// opcodes.
func (c Command) Triangle() (v [3]uint8, ok bool) {
	if c.Opcode() != OpDrawTriangle {
		return v, false
	}
	v[0] = uint8(c.get(drawIdxMask, drawV0Shift))
	v[1] = uint8(c.get(drawIdxMask, drawV1Shift))
	v[2] = uint8(c.get(drawIdxMask, drawV2Shift))
	return v, true
}

// String renders the instruction the way the C macros are called.
func (c Command) String() string {
	switch c.Opcode() {
	case OpFinalize:
		return "ugfx_finalize()"
	case OpLoadVertices:
		l, _ := c.Load()
		return fmt.Sprintf("ugfx_load_vertices(%d, %d, %d, %d)", l.Slot, l.ByteOffset, l.Index, l.Count)
	case OpDrawTriangle:
		v, _ := c.Triangle()
		return fmt.Sprintf("ugfx_draw_triangle(%d, %d, %d)", v[0], v[1], v[2])
	default:
		return fmt.Sprintf("0x%016X", uint64(c))
	}
}
