// Package mc64 reads and writes the MC64 mesh format: a vertex table and
// a ugfx command list behind a small big-endian header.
package mc64

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/mc64/pkg/mesh"
	"github.com/Faultbox/mc64/pkg/ugfx"
)

// Magic identifies an MC64 file.
const Magic = "MC64"

// Version is the format version written by this package.
const Version = 1

// HeaderSize is the size of the fixed file header.
const HeaderSize = 16

// CommandSize is the size of one serialized command.
const CommandSize = 8

// MC64 format errors.
var (
	ErrInvalidMagic       = errors.New("invalid MC64 magic: expected 'MC64'")
	ErrUnsupportedVersion = errors.New("unsupported MC64 version")
	ErrTruncatedData      = errors.New("truncated MC64 data")
	ErrInvalidSize        = errors.New("invalid MC64 section size")
)

// Record is one serialized vertex. Attr holds the raw attribute bytes;
// whether they are a color or a normal is not stored in the file.
type Record struct {
	X, Y, Z int16
	Pad     uint16
	S, T    int16
	Attr    [4]byte
}

// Color interprets the attribute bytes as a color.
func (r Record) Color() mesh.Color {
	return mesh.Color{R: r.Attr[0], G: r.Attr[1], B: r.Attr[2], A: r.Attr[3]}
}

// Normal interprets the attribute bytes as a normal.
func (r Record) Normal() mesh.Normal {
	return mesh.Normal{X: int8(r.Attr[0]), Y: int8(r.Attr[1]), Z: int8(r.Attr[2]), A: r.Attr[3]}
}

// File is a parsed MC64 file.
type File struct {
	Version  uint32
	Vertices []Record
	Commands []ugfx.Command
}

func record(v *mesh.Vertex) Record {
	return Record{X: v.X, Y: v.Y, Z: v.Z, S: v.S, T: v.T, Attr: v.AttrBytes()}
}

// Write serializes m in MC64 binary form.
func Write(w io.Writer, m *mesh.Mesh) error {
	return writeFile(w, m.Vertices, ugfx.CommandList(m))
}

func writeFile(w io.Writer, vertices []mesh.Vertex, cmds []ugfx.Command) error {
	bw := bufio.NewWriter(w)

	header := struct {
		Magic        [4]byte
		Version      uint32
		VerticesSize uint32
		CommandsSize uint32
	}{
		Version:      Version,
		VerticesSize: uint32(len(vertices) * mesh.VertexSize),
		CommandsSize: uint32(len(cmds) * CommandSize),
	}
	copy(header.Magic[:], Magic)

	if err := binary.Write(bw, binary.BigEndian, &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range vertices {
		if err := binary.Write(bw, binary.BigEndian, record(&vertices[i])); err != nil {
			return fmt.Errorf("writing vertex %d: %w", i, err)
		}
	}

	var buf [CommandSize]byte
	for _, c := range cmds {
		binary.BigEndian.PutUint64(buf[:], uint64(c))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("writing commands: %w", err)
		}
	}

	return bw.Flush()
}

// Marshal returns the MC64 encoding of m.
func Marshal(m *mesh.Mesh) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveBinary writes m to path in MC64 binary form, replacing any
// existing file.
func SaveBinary(m *mesh.Mesh, path string) error {
	return saveWith(path, func(w io.Writer) error { return Write(w, m) })
}

func saveWith(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Parse parses an MC64 file from raw bytes.
func Parse(data []byte) (*File, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncatedData
	}

	if string(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}

	version := binary.BigEndian.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	verticesSize := binary.BigEndian.Uint32(data[8:12])
	commandsSize := binary.BigEndian.Uint32(data[12:16])

	if verticesSize%mesh.VertexSize != 0 {
		return nil, fmt.Errorf("%w: vertex table is %d bytes", ErrInvalidSize, verticesSize)
	}
	if commandsSize%CommandSize != 0 {
		return nil, fmt.Errorf("%w: command list is %d bytes", ErrInvalidSize, commandsSize)
	}
	if uint64(len(data)-HeaderSize) < uint64(verticesSize)+uint64(commandsSize) {
		return nil, ErrTruncatedData
	}

	file := &File{
		Version:  version,
		Vertices: make([]Record, verticesSize/mesh.VertexSize),
		Commands: make([]ugfx.Command, commandsSize/CommandSize),
	}

	body := data[HeaderSize:]
	r := bytes.NewReader(body[:verticesSize])
	if err := binary.Read(r, binary.BigEndian, file.Vertices); err != nil {
		return nil, fmt.Errorf("reading vertices: %w", err)
	}

	cmds := body[verticesSize : verticesSize+commandsSize]
	for i := range file.Commands {
		file.Commands[i] = ugfx.Command(binary.BigEndian.Uint64(cmds[i*CommandSize:]))
	}

	return file, nil
}

// ParseFile loads and parses an MC64 file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MC64 file: %w", err)
	}
	return Parse(data)
}
