// Package mesh holds the vertex table model and the batch packer that
// splits a triangle list into groups fitting the microcode vertex cache.
package mesh

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Faultbox/mc64/pkg/fixed"
)

// Mesh errors.
var (
	ErrIndexOutOfRange   = errors.New("face index out of range")
	ErrAttributeMismatch = errors.New("attribute count does not match vertex count")
	ErrTooManyVertices   = errors.New("too many vertices for the vertex table")
)

// MaxVertices is the number of vertices addressable by the 25-bit byte
// offset of a load instruction.
const MaxVertices = (1 << 25) / VertexSize

// Source is a finalized, triangulated mesh as produced by an importer.
// TexCoords, Colors and Normals are optional; when present they have one
// entry per position.
type Source struct {
	Name      string
	Positions [][3]float32
	TexCoords [][2]float32
	Colors    [][4]float32
	Normals   [][3]float32
	Faces     [][3]uint32
}

// Mesh is a converted mesh ready for command encoding.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Batches  []TriangleBatch
}

// TriangleCount returns the number of triangles across all batches.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Batches {
		n += len(m.Batches[i].Triangles)
	}
	return n
}

// BlockCount returns the number of vertex blocks across all batches.
func (m *Mesh) BlockCount() int {
	n := 0
	for i := range m.Batches {
		n += len(m.Batches[i].Blocks)
	}
	return n
}

// Options control Build.
type Options struct {
	Fit Fit
}

// Build encodes the source vertices and packs its faces into batches.
func Build(src *Source, opts Options) (*Mesh, error) {
	if err := validate(src); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", src.Name, err)
	}

	return &Mesh{
		Name:     Name(src.Name),
		Vertices: EncodeVertices(src),
		Batches:  Pack(src.Faces, opts.Fit),
	}, nil
}

// Name returns the name a mesh built from a source called name carries.
func Name(name string) string {
	return cases.Lower(language.Und).String(name)
}

// EncodeVertices converts the source attributes to their fixed-point form.
// Colors take precedence over normals.
func EncodeVertices(src *Source) []Vertex {
	out := make([]Vertex, len(src.Positions))
	for i, p := range src.Positions {
		v := Vertex{
			X: fixed.S10_5(p[0]),
			Y: fixed.S10_5(p[1]),
			Z: fixed.S10_5(p[2]),
		}

		if src.TexCoords != nil {
			uv := src.TexCoords[i]
			v.S = fixed.TexCoord(uv[0])
			v.T = fixed.TexCoord(uv[1])
		}

		switch {
		case src.Colors != nil:
			c := src.Colors[i]
			v.Attr = Color{
				R: fixed.UNorm8(c[0]),
				G: fixed.UNorm8(c[1]),
				B: fixed.UNorm8(c[2]),
				A: fixed.UNorm8(c[3]),
			}
		case src.Normals != nil:
			n := src.Normals[i]
			v.Attr = Normal{
				X: fixed.SNorm8(n[0]),
				Y: fixed.SNorm8(n[1]),
				Z: fixed.SNorm8(n[2]),
			}
		default:
			v.Attr = Normal{}
		}

		out[i] = v
	}
	return out
}

func validate(src *Source) error {
	n := len(src.Positions)
	if n > MaxVertices {
		return fmt.Errorf("%w: %d > %d", ErrTooManyVertices, n, MaxVertices)
	}
	if src.TexCoords != nil && len(src.TexCoords) != n {
		return fmt.Errorf("%w: %d texcoords", ErrAttributeMismatch, len(src.TexCoords))
	}
	if src.Colors != nil && len(src.Colors) != n {
		return fmt.Errorf("%w: %d colors", ErrAttributeMismatch, len(src.Colors))
	}
	if src.Normals != nil && len(src.Normals) != n {
		return fmt.Errorf("%w: %d normals", ErrAttributeMismatch, len(src.Normals))
	}
	for i, f := range src.Faces {
		for _, idx := range f {
			if int(idx) >= n {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, n)
			}
		}
	}
	return nil
}
