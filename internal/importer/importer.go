// Package importer reads model files into finalized, triangulated mesh
// sources ready for conversion.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/mc64/pkg/mesh"
)

// Import errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrIndexOutOfRange   = errors.New("vertex index out of range")
	ErrNoMeshes          = errors.New("no meshes in model")
	ErrMalformed         = errors.New("malformed model data")
)

// Options control how sources are produced.
type Options struct {
	// FlipV mirrors texture coordinates vertically after the importer has
	// converted them to a top-left origin.
	FlipV bool
}

// Load reads every mesh in the model at path.
func Load(path string, opts Options) ([]*mesh.Source, error) {
	var (
		sources []*mesh.Source
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		sources, err = LoadGLTF(path)
	case ".obj":
		sources, err = LoadOBJ(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return nil, errors.Wrapf(ErrNoMeshes, "%s", path)
	}

	if opts.FlipV {
		for _, src := range sources {
			flipV(src)
		}
	}
	return sources, nil
}

// baseName returns the file name of path without extension.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func flipV(src *mesh.Source) {
	for i := range src.TexCoords {
		src.TexCoords[i][1] = 1 - src.TexCoords[i][1]
	}
}

// appendFace appends f unless two of its corners share a vertex.
func appendFace(faces [][3]uint32, f [3]uint32) [][3]uint32 {
	if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
		return faces
	}
	return append(faces, f)
}

// checkFaces verifies that every face index addresses a vertex.
func checkFaces(src *mesh.Source) error {
	n := uint32(len(src.Positions))
	for i, f := range src.Faces {
		for _, idx := range f {
			if idx >= n {
				return errors.Wrapf(ErrIndexOutOfRange, "mesh %q face %d: index %d of %d", src.Name, i, idx, n)
			}
		}
	}
	return nil
}
