package mesh

import (
	"errors"
	"testing"
)

func quadSource() *Source {
	return &Source{
		Name: "Quad",
		Positions: [][3]float32{
			{-1, -1, 0},
			{1, -1, 0},
			{1, 1, 0},
			{-1, 1, 0},
		},
		TexCoords: [][2]float32{
			{0, 1},
			{1, 1},
			{1, 0},
			{0, 0},
		},
		Normals: [][3]float32{
			{0, 0, 1},
			{0, 0, 1},
			{0, 0, 1},
			{0, 0, -1},
		},
		Faces: [][3]uint32{
			{0, 1, 2},
			{0, 2, 3},
		},
	}
}

func TestBuild_Quad(t *testing.T) {
	m, err := Build(quadSource(), Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if m.Name != "quad" {
		t.Errorf("expected lower-cased name 'quad', got %q", m.Name)
	}
	if len(m.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(m.Vertices))
	}
	if len(m.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(m.Batches))
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if m.BlockCount() != 1 {
		t.Errorf("expected 1 block, got %d", m.BlockCount())
	}

	v := m.Vertices[1]
	if v.X != 32 || v.Y != -32 || v.Z != 0 {
		t.Errorf("unexpected position (%d, %d, %d)", v.X, v.Y, v.Z)
	}
	if v.S != 2048 || v.T != 2048 {
		t.Errorf("unexpected texcoords (%d, %d)", v.S, v.T)
	}
	if v.Attr != (Normal{X: 0, Y: 0, Z: 127}) {
		t.Errorf("unexpected attribute %v", v.Attr)
	}
	if got := m.Vertices[3].Attr; got != (Normal{Z: -128}) {
		t.Errorf("unexpected attribute %v", got)
	}
	if v.HasColor() {
		t.Error("expected normal attribute, got color")
	}
}

func TestBuild_ColorsWinOverNormals(t *testing.T) {
	src := quadSource()
	src.Colors = [][4]float32{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{1, 1, 1, 0},
	}

	m, err := Build(src, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Color{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 255, 0},
	}
	for i, c := range want {
		if !m.Vertices[i].HasColor() {
			t.Errorf("vertex %d: expected color attribute", i)
			continue
		}
		if m.Vertices[i].Attr != c {
			t.Errorf("vertex %d: got %v, want %v", i, m.Vertices[i].Attr, c)
		}
	}
}

func TestBuild_NoAttributes(t *testing.T) {
	src := &Source{
		Name:      "bare",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}},
	}

	m, err := Build(src, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i, v := range m.Vertices {
		if v.S != 0 || v.T != 0 {
			t.Errorf("vertex %d: expected zero texcoords", i)
		}
		if v.AttrBytes() != [4]byte{} {
			t.Errorf("vertex %d: expected zero attribute bytes, got %v", i, v.AttrBytes())
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Source)
		want   error
	}{
		{
			name:   "face index out of range",
			modify: func(s *Source) { s.Faces = append(s.Faces, [3]uint32{0, 1, 4}) },
			want:   ErrIndexOutOfRange,
		},
		{
			name:   "short texcoords",
			modify: func(s *Source) { s.TexCoords = s.TexCoords[:2] },
			want:   ErrAttributeMismatch,
		},
		{
			name:   "short normals",
			modify: func(s *Source) { s.Normals = s.Normals[:3] },
			want:   ErrAttributeMismatch,
		},
		{
			name:   "short colors",
			modify: func(s *Source) { s.Colors = [][4]float32{{1, 1, 1, 1}} },
			want:   ErrAttributeMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := quadSource()
			tc.modify(src)
			_, err := Build(src, Options{})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAttributeBytes(t *testing.T) {
	n := Normal{X: -128, Y: 127, Z: -1}
	if got := n.Bytes(); got != [4]byte{0x80, 0x7F, 0xFF, 0x00} {
		t.Errorf("normal bytes = %v", got)
	}

	c := Color{R: 1, G: 2, B: 3, A: 4}
	if got := c.Bytes(); got != [4]byte{1, 2, 3, 4} {
		t.Errorf("color bytes = %v", got)
	}

	var v Vertex
	if v.AttrBytes() != [4]byte{} {
		t.Error("expected zero bytes for vertex without attribute")
	}
}

func TestName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Cube", "cube"},
		{"cube", "cube"},
		{"Ship_Hull.001", "ship_hull.001"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
