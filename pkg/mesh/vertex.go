package mesh

import "fmt"

// VertexSize is the size in bytes of one serialized vertex record.
const VertexSize = 16

// Vertex is a vertex in its on-wire fixed-point representation.
type Vertex struct {
	X, Y, Z int16 // s10.5 position
	S, T    int16 // texture coordinates, s10.5 of (uv*32) shifted left by one
	Attr    Attribute
}

// Attribute is the per-vertex lighting input. It is either a Color or a
// Normal; both occupy the same four bytes of the vertex record.
type Attribute interface {
	// Bytes returns the four attribute bytes in record order.
	Bytes() [4]byte
	isAttribute()
}

// Color is an RGBA vertex color.
type Color struct {
	R, G, B, A uint8
}

// Bytes returns r, g, b, a.
func (c Color) Bytes() [4]byte { return [4]byte{c.R, c.G, c.B, c.A} }

func (Color) isAttribute() {}

func (c Color) String() string {
	return fmt.Sprintf("color(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// Normal is a signed-normalized vertex normal. A is unused by the
// microcode and normally zero.
type Normal struct {
	X, Y, Z int8
	A       uint8
}

// Bytes returns x, y, z, a.
func (n Normal) Bytes() [4]byte { return [4]byte{byte(n.X), byte(n.Y), byte(n.Z), n.A} }

func (Normal) isAttribute() {}

func (n Normal) String() string {
	return fmt.Sprintf("normal(%d, %d, %d)", n.X, n.Y, n.Z)
}

// AttrBytes returns the attribute bytes of v. A vertex without an
// attribute serializes as a zero normal.
func (v Vertex) AttrBytes() [4]byte {
	if v.Attr == nil {
		return [4]byte{}
	}
	return v.Attr.Bytes()
}

// HasColor reports whether the vertex carries a color attribute.
func (v Vertex) HasColor() bool {
	_, ok := v.Attr.(Color)
	return ok
}
