package mc64

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/mc64/pkg/mesh"
	"github.com/Faultbox/mc64/pkg/ugfx"
)

// Identifier turns a mesh name into a valid C identifier.
func Identifier(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "mesh"
	}
	return sb.String()
}

// WriteSource writes m as a C header for libdragon's ugfx: a vertex array,
// a command list and their lengths, named after the mesh.
func WriteSource(w io.Writer, m *mesh.Mesh) error {
	name := Identifier(m.Name)
	verticesName := name + "_vertices"
	cmdListName := name + "_cmd_list"

	var sb strings.Builder

	fmt.Fprintf(&sb, "#ifndef %s_H\n", name)
	fmt.Fprintf(&sb, "#define %s_H\n\n", name)
	sb.WriteString("#include <libdragon.h>\n\n")

	fmt.Fprintf(&sb, "const ugfx_vertex_t %s[] = {\n", verticesName)
	for i := range m.Vertices {
		writeVertex(&sb, &m.Vertices[i])
	}
	sb.WriteString("};\n\n")
	fmt.Fprintf(&sb, "const uint32_t %s_length = sizeof(%s) / sizeof(ugfx_vertex_t);\n\n", verticesName, verticesName)

	fmt.Fprintf(&sb, "ugfx_command_t %s[] = {\n", cmdListName)
	cmds := ugfx.CommandList(m)
	for i, c := range cmds {
		sep := ","
		if i == len(cmds)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    %s%s\n", sourceCommand(c), sep)
	}
	sb.WriteString("};\n\n")
	fmt.Fprintf(&sb, "const uint32_t %s_length = sizeof(%s) / sizeof(ugfx_command_t);\n\n", cmdListName, cmdListName)

	sb.WriteString("#endif\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeVertex(sb *strings.Builder, v *mesh.Vertex) {
	fmt.Fprintf(sb, "    { .x = %d, .y = %d, .z = %d, .s = %d, .t = %d,", v.X, v.Y, v.Z, v.S, v.T)

	switch a := v.Attr.(type) {
	case mesh.Color:
		fmt.Fprintf(sb, " .attr.color.r = %d, .attr.color.g = %d, .attr.color.b = %d, .attr.color.a = %d,",
			a.R, a.G, a.B, a.A)
	case mesh.Normal:
		fmt.Fprintf(sb, " .attr.normal.x = %d, .attr.normal.y = %d, .attr.normal.z = %d, .attr.normal.a = %d,",
			a.X, a.Y, a.Z, a.A)
	default:
		sb.WriteString(" .attr.normal.x = 0, .attr.normal.y = 0, .attr.normal.z = 0, .attr.normal.a = 0,")
	}

	sb.WriteString(" },\n")
}

// sourceCommand renders c as a ugfx macro call. Load offsets are written
// as a vertex count times sizeof(ugfx_vertex_t).
func sourceCommand(c ugfx.Command) string {
	if l, ok := c.Load(); ok {
		return fmt.Sprintf("ugfx_load_vertices(%d, %d * sizeof(ugfx_vertex_t), %d, %d)",
			l.Slot, l.ByteOffset/mesh.VertexSize, l.Index, l.Count)
	}
	return c.String()
}

// SaveSource writes m to path as a C header.
func SaveSource(m *mesh.Mesh, path string) error {
	return saveWith(path, func(w io.Writer) error { return WriteSource(w, m) })
}
