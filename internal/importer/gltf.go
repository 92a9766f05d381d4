package importer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/mc64/pkg/mesh"
)

// LoadGLTF reads a .gltf or .glb file.
func LoadGLTF(path string) ([]*mesh.Source, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return FromGLTF(doc, baseName(path))
}

// FromGLTF converts every triangle primitive of doc into a source. A mesh
// with several primitives yields one source per primitive, suffixed with
// the primitive number. Point and line primitives are skipped.
func FromGLTF(doc *gltf.Document, fallbackName string) ([]*mesh.Source, error) {
	var sources []*mesh.Source

	for mi, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", fallbackName, mi)
		}

		for pi, prim := range m.Primitives {
			if !isTriangles(prim.Mode) {
				continue
			}

			src, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %q primitive %d", name, pi)
			}

			src.Name = name
			if len(m.Primitives) > 1 {
				src.Name = fmt.Sprintf("%s_%d", name, pi)
			}
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func isTriangles(mode gltf.PrimitiveMode) bool {
	switch mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return true
	}
	return false
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*mesh.Source, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.Wrap(ErrMalformed, "primitive has no POSITION attribute")
	}

	src := &mesh.Source{}

	var err error
	src.Positions, err = modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading positions")
	}
	n := len(src.Positions)

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if src.TexCoords, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "reading texture coordinates")
		}
		if len(src.TexCoords) != n {
			return nil, errors.Wrap(ErrMalformed, "TEXCOORD_0 count differs from POSITION")
		}
	}

	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if src.Colors, err = readColors(doc, doc.Accessors[idx]); err != nil {
			return nil, errors.Wrap(err, "reading colors")
		}
		if len(src.Colors) != n {
			return nil, errors.Wrap(ErrMalformed, "COLOR_0 count differs from POSITION")
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if src.Normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "reading normals")
		}
		if len(src.Normals) != n {
			return nil, errors.Wrap(ErrMalformed, "NORMAL count differs from POSITION")
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, errors.Wrap(err, "reading indices")
		}
	} else {
		indices = make([]uint32, n)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	src.Faces = triangulate(prim.Mode, indices)
	if err := checkFaces(src); err != nil {
		return nil, err
	}
	return src, nil
}

// readColors reads a COLOR_0 accessor as RGBA in [0,1]. Float colors are
// kept as stored; normalized integer colors are widened to 16 bits first.
func readColors(doc *gltf.Document, acr *gltf.Accessor) ([][4]float32, error) {
	if acr.ComponentType == gltf.ComponentFloat {
		data, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return nil, err
		}
		switch c := data.(type) {
		case [][4]float32:
			return c, nil
		case [][3]float32:
			out := make([][4]float32, len(c))
			for i, e := range c {
				out[i] = [4]float32{e[0], e[1], e[2], 1}
			}
			return out, nil
		default:
			return nil, errors.Wrapf(ErrMalformed, "COLOR_0 of type %T", data)
		}
	}

	colors, err := modeler.ReadColor64(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	out := make([][4]float32, len(colors))
	for i, c := range colors {
		out[i] = [4]float32{
			float32(c[0]) / 65535,
			float32(c[1]) / 65535,
			float32(c[2]) / 65535,
			float32(c[3]) / 65535,
		}
	}
	return out, nil
}

// triangulate turns a triangle list, strip or fan into a triangle list,
// dropping degenerate triangles.
func triangulate(mode gltf.PrimitiveMode, indices []uint32) [][3]uint32 {
	var faces [][3]uint32

	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(indices); i++ {
			// Odd triangles swap their first two corners.
			if i%2 == 0 {
				faces = appendFace(faces, [3]uint32{indices[i-2], indices[i-1], indices[i]})
			} else {
				faces = appendFace(faces, [3]uint32{indices[i-1], indices[i-2], indices[i]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(indices); i++ {
			faces = appendFace(faces, [3]uint32{indices[0], indices[i-1], indices[i]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			faces = appendFace(faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	}

	return faces
}
