package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// createTestDocument builds a glTF document with one quad mesh made of an
// indexed triangle primitive and a line primitive that must be skipped.
func createTestDocument() *gltf.Document {
	doc := gltf.NewDocument()

	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	uvs := [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	colors := [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {255, 255, 255, 255}}

	tris := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			gltf.COLOR_0:    modeler.WriteColor(doc, colors),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3, 1, 1, 2})),
	}
	lines := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: modeler.WritePosition(doc, positions),
		},
		Mode: gltf.PrimitiveLines,
	}

	doc.Meshes = []*gltf.Mesh{{Name: "Quad", Primitives: []*gltf.Primitive{tris, lines}}}
	return doc
}

func TestFromGLTF(t *testing.T) {
	sources, err := FromGLTF(createTestDocument(), "file")
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}

	src := sources[0]
	if src.Name != "Quad_0" {
		t.Errorf("expected name 'Quad_0', got %q", src.Name)
	}
	if len(src.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(src.Positions))
	}
	// The degenerate third triangle is dropped.
	want := [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	if !reflect.DeepEqual(src.Faces, want) {
		t.Errorf("faces = %v, want %v", src.Faces, want)
	}
	if src.TexCoords[1] != [2]float32{1, 1} {
		t.Errorf("unexpected uv %v", src.TexCoords[1])
	}
	if src.Colors[1] != [4]float32{0, 1, 0, 1} {
		t.Errorf("unexpected color %v", src.Colors[1])
	}
	if src.Normals[3] != [3]float32{0, 0, 1} {
		t.Errorf("unexpected normal %v", src.Normals[3])
	}
}

func TestFromGLTF_NonIndexed(t *testing.T) {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		},
	}
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{prim}}}

	sources, err := FromGLTF(doc, "file")
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].Name != "file_0" {
		t.Errorf("expected fallback name 'file_0', got %q", sources[0].Name)
	}
	if !reflect.DeepEqual(sources[0].Faces, [][3]uint32{{0, 1, 2}}) {
		t.Errorf("unexpected faces %v", sources[0].Faces)
	}
	if sources[0].Colors != nil || sources[0].Normals != nil || sources[0].TexCoords != nil {
		t.Error("expected no optional attributes")
	}
}

func TestFromGLTF_IndexOutOfRange(t *testing.T) {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, []uint32{0, 1, 7})),
	}
	doc.Meshes = []*gltf.Mesh{{Name: "broken", Primitives: []*gltf.Primitive{prim}}}

	_, err := FromGLTF(doc, "file")
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestFromGLTF_ColorComponentTypes(t *testing.T) {
	tests := []struct {
		name   string
		colors interface{}
		want   [4]float32
	}{
		{"ubyte", [][4]uint8{{0, 0, 0, 0}, {255, 0, 0, 255}, {0, 0, 0, 0}}, [4]float32{1, 0, 0, 1}},
		{"ushort", [][4]uint16{{0, 0, 0, 0}, {32768, 32768, 32768, 65535}, {0, 0, 0, 0}}, [4]float32{0.5, 0.5, 0.5, 1}},
		{"ushort rgb", [][3]uint16{{0, 0, 0}, {65535, 16384, 0}, {0, 0, 0}}, [4]float32{1, 0.25, 0, 1}},
		{"float", [][4]float32{{0, 0, 0, 0}, {0.3, 0.6, 0.9, 0.5}, {0, 0, 0, 0}}, [4]float32{0.3, 0.6, 0.9, 0.5}},
		{"float rgb", [][3]float32{{0, 0, 0}, {0.2, 0.4, 0.6}, {0, 0, 0}}, [4]float32{0.2, 0.4, 0.6, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			prim := &gltf.Primitive{
				Attributes: map[string]uint32{
					gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
					gltf.COLOR_0:  modeler.WriteColor(doc, tt.colors),
				},
			}
			doc.Meshes = []*gltf.Mesh{{Name: "c", Primitives: []*gltf.Primitive{prim}}}

			sources, err := FromGLTF(doc, "file")
			if err != nil {
				t.Fatalf("FromGLTF failed: %v", err)
			}
			got := sources[0].Colors[1]
			for i := range got {
				if d := got[i] - tt.want[i]; d > 1e-3 || d < -1e-3 {
					t.Fatalf("color = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name    string
		mode    gltf.PrimitiveMode
		indices []uint32
		want    [][3]uint32
	}{
		{"list", gltf.PrimitiveTriangles, []uint32{0, 1, 2, 3, 4, 5, 6}, [][3]uint32{{0, 1, 2}, {3, 4, 5}}},
		{"strip", gltf.PrimitiveTriangleStrip, []uint32{0, 1, 2, 3, 4}, [][3]uint32{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}},
		{"fan", gltf.PrimitiveTriangleFan, []uint32{0, 1, 2, 3}, [][3]uint32{{0, 1, 2}, {0, 2, 3}}},
		{"strip with restart", gltf.PrimitiveTriangleStrip, []uint32{0, 1, 2, 2, 3}, [][3]uint32{{0, 1, 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := triangulate(tc.mode, tc.indices); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoad_GLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(createTestDocument(), path); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}

	sources, err := Load(path, Options{FlipV: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].TexCoords[0] != [2]float32{0, 0} {
		t.Errorf("expected flipped uv (0, 0), got %v", sources[0].TexCoords[0])
	}
}

func TestLoad_OBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sources, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sources[0].Name != "Cube" {
		t.Errorf("expected name 'Cube', got %q", sources[0].Name)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.obj")
	if err := os.WriteFile(empty, []byte("v 0 0 0\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unsupported", filepath.Join(dir, "model.fbx"), ErrUnsupportedFormat},
		{"no meshes", empty, ErrNoMeshes},
		{"missing", filepath.Join(dir, "missing.obj"), os.ErrNotExist},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path, Options{})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
