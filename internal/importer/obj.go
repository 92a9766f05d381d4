package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/mc64/pkg/mesh"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) ([]*mesh.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	sources, err := ParseOBJ(f, baseName(path))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return sources, nil
}

// objKey identifies a unique v/vt/vn combination. Missing components are -1.
type objKey [3]int

// objObject accumulates one "o" section.
type objObject struct {
	name    string
	keys    map[objKey]uint32
	order   []objKey
	faces   [][3]uint32
	hasUV   bool
	hasNorm bool
}

func newOBJObject(name string) *objObject {
	return &objObject{name: name, keys: make(map[objKey]uint32)}
}

// vertex returns the joined vertex index for k.
func (o *objObject) vertex(k objKey) uint32 {
	if idx, ok := o.keys[k]; ok {
		return idx
	}
	idx := uint32(len(o.order))
	o.keys[k] = idx
	o.order = append(o.order, k)
	if k[1] >= 0 {
		o.hasUV = true
	}
	if k[2] >= 0 {
		o.hasNorm = true
	}
	return idx
}

// objParser holds the global attribute pools shared by all objects.
type objParser struct {
	positions [][3]float32
	colors    [][4]float32
	hasColor  bool
	uvs       [][2]float32
	normals   [][3]float32

	objects []*objObject
	current *objObject
	line    int

	defaultName string
	unnamed     int // bare "o" statements seen so far
}

// ParseOBJ parses OBJ text. Each "o" statement starts a new source;
// statements before the first one belong to a source named defaultName.
// Polygons are fan-triangulated, identical v/vt/vn corners are joined
// and texture coordinates are converted to a top-left origin.
func ParseOBJ(r io.Reader, defaultName string) ([]*mesh.Source, error) {
	p := &objParser{defaultName: defaultName}
	p.current = newOBJObject(defaultName)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields); err != nil {
			return nil, errors.Wrapf(err, "line %d", p.line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading OBJ")
	}
	p.closeObject()

	sources := make([]*mesh.Source, 0, len(p.objects))
	for _, o := range p.objects {
		sources = append(sources, p.source(o))
	}
	return sources, nil
}

func (p *objParser) statement(fields []string) error {
	switch fields[0] {
	case "v":
		vals, err := parseFloats(fields[1:], 3, 7)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{vals[0], vals[1], vals[2]})
		c := [4]float32{1, 1, 1, 1}
		if len(vals) >= 6 {
			// "v x y z r g b" vertex color extension
			copy(c[:3], vals[3:6])
			p.hasColor = true
		}
		p.colors = append(p.colors, c)
	case "vt":
		vals, err := parseFloats(fields[1:], 1, 3)
		if err != nil {
			return err
		}
		uv := [2]float32{vals[0], 0}
		if len(vals) > 1 {
			uv[1] = vals[1]
		}
		p.uvs = append(p.uvs, uv)
	case "vn":
		vals, err := parseFloats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{vals[0], vals[1], vals[2]})
	case "f":
		return p.face(fields[1:])
	case "o":
		p.closeObject()
		var name string
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		} else {
			p.unnamed++
			name = fmt.Sprintf("%s_%d", p.defaultName, p.unnamed)
		}
		p.current = newOBJObject(name)
	}
	// g, s, usemtl, mtllib, l and p carry nothing the converter uses.
	return nil
}

func (p *objParser) closeObject() {
	if len(p.current.faces) > 0 {
		p.objects = append(p.objects, p.current)
	}
}

func (p *objParser) face(corners []string) error {
	if len(corners) < 3 {
		return errors.Wrapf(ErrMalformed, "face with %d corners", len(corners))
	}

	idx := make([]uint32, len(corners))
	for i, c := range corners {
		k, err := p.parseCorner(c)
		if err != nil {
			return err
		}
		idx[i] = p.current.vertex(k)
	}

	for i := 2; i < len(idx); i++ {
		p.current.faces = appendFace(p.current.faces, [3]uint32{idx[0], idx[i-1], idx[i]})
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (p *objParser) parseCorner(s string) (objKey, error) {
	k := objKey{-1, -1, -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return k, errors.Wrapf(ErrMalformed, "face corner %q", s)
	}

	pools := [3]int{len(p.positions), len(p.uvs), len(p.normals)}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return k, errors.Wrapf(ErrMalformed, "face corner %q has no position", s)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return k, errors.Wrapf(ErrMalformed, "face corner %q", s)
		}
		// OBJ indices are 1-based; negative ones count back from the end.
		if n < 0 {
			n += pools[i]
		} else {
			n--
		}
		if n < 0 || n >= pools[i] {
			return k, errors.Wrapf(ErrIndexOutOfRange, "face corner %q", s)
		}
		k[i] = n
	}
	return k, nil
}

func (p *objParser) source(o *objObject) *mesh.Source {
	src := &mesh.Source{
		Name:      o.name,
		Positions: make([][3]float32, len(o.order)),
		Faces:     o.faces,
	}
	if o.hasUV {
		src.TexCoords = make([][2]float32, len(o.order))
	}
	if o.hasNorm {
		src.Normals = make([][3]float32, len(o.order))
	}
	if p.hasColor {
		src.Colors = make([][4]float32, len(o.order))
	}

	for i, k := range o.order {
		src.Positions[i] = p.positions[k[0]]
		if src.Colors != nil {
			src.Colors[i] = p.colors[k[0]]
		}
		if src.TexCoords != nil && k[1] >= 0 {
			uv := p.uvs[k[1]]
			src.TexCoords[i] = [2]float32{uv[0], 1 - uv[1]}
		}
		if src.Normals != nil && k[2] >= 0 {
			src.Normals[i] = p.normals[k[2]]
		}
	}
	return src
}

func parseFloats(fields []string, minN, maxN int) ([]float32, error) {
	if len(fields) < minN {
		return nil, errors.Wrapf(ErrMalformed, "expected at least %d values, got %d", minN, len(fields))
	}
	if len(fields) > maxN {
		fields = fields[:maxN]
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "bad number %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}
