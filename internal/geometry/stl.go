package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	binarySTLHeaderLen   = 80
	binarySTLTriangleLen = 50 // 12 float32s + uint16 attribute
)

// ReadSTL decodes a binary or ASCII STL file into a Mesh. Truncated files,
// vertex runs that do not form whole triangles, and files with no facets at
// all are reported as ErrMalformedMesh.
func ReadSTL(data []byte) (*Mesh, error) {
	if isASCIISTL(data) {
		return readASCIISTL(data)
	}
	return readBinarySTL(data)
}

// isASCIISTL sniffs the ASCII variant. Binary files may also begin with
// "solid", so the first chunk must additionally contain a facet keyword.
func isASCIISTL(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

func readBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < binarySTLHeaderLen+4 {
		return nil, fmt.Errorf("binary stl shorter than header: %w", ErrMalformedMesh)
	}

	count := binary.LittleEndian.Uint32(data[binarySTLHeaderLen:])
	if count == 0 {
		return nil, fmt.Errorf("binary stl declares zero triangles: %w", ErrMalformedMesh)
	}

	body := data[binarySTLHeaderLen+4:]
	if uint64(len(body)) < uint64(count)*binarySTLTriangleLen {
		return nil, fmt.Errorf("binary stl truncated at %d of %d triangles: %w",
			len(body)/binarySTLTriangleLen, count, ErrMalformedMesh)
	}

	mesh := &Mesh{Triangles: make([]Triangle, 0, count)}
	for i := uint32(0); i < count; i++ {
		rec := body[i*binarySTLTriangleLen:]
		// Skip the 12-byte normal; vertices start at offset 12.
		mesh.Triangles = append(mesh.Triangles, Triangle{
			A: readVertex(rec[12:]),
			B: readVertex(rec[24:]),
			C: readVertex(rec[36:]),
		})
	}
	return mesh, nil
}

func readVertex(rec []byte) Point3 {
	return Point3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[8:]))),
	}
}

func readASCIISTL(data []byte) (*Mesh, error) {
	var vertices []Point3

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "vertex") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("ascii stl vertex line %q: %w", line, ErrMalformedMesh)
		}
		var p Point3
		var err error
		if p.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("ascii stl vertex line %q: %w", line, ErrMalformedMesh)
		}
		if p.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("ascii stl vertex line %q: %w", line, ErrMalformedMesh)
		}
		if p.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, fmt.Errorf("ascii stl vertex line %q: %w", line, ErrMalformedMesh)
		}
		vertices = append(vertices, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan ascii stl: %w", err)
	}

	if len(vertices) == 0 {
		return nil, fmt.Errorf("ascii stl has no vertex data: %w", ErrMalformedMesh)
	}
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("ascii stl vertex count %d is not a multiple of 3: %w", len(vertices), ErrMalformedMesh)
	}

	mesh := &Mesh{Triangles: make([]Triangle, 0, len(vertices)/3)}
	for i := 0; i+2 < len(vertices); i += 3 {
		mesh.Triangles = append(mesh.Triangles, Triangle{A: vertices[i], B: vertices[i+1], C: vertices[i+2]})
	}
	return mesh, nil
}
