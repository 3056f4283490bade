package geometry

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binarySTL encodes triangles in the binary STL layout.
func binarySTL(t *testing.T, triangles []Triangle) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, binarySTLHeaderLen))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))

	writeVertex := func(p Point3) {
		for _, v := range []float64{p.X, p.Y, p.Z} {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(v))))
		}
	}
	for _, tri := range triangles {
		buf.Write(make([]byte, 12)) // normal, ignored by the reader
		writeVertex(tri.A)
		writeVertex(tri.B)
		writeVertex(tri.C)
		buf.Write(make([]byte, 2)) // attribute byte count
	}
	return buf.Bytes()
}

func TestReadSTL_BinaryCube(t *testing.T) {
	data := binarySTL(t, cubeMesh(10).Triangles)

	mesh, err := ReadSTL(data)
	require.NoError(t, err)
	require.Equal(t, 12, mesh.TriangleCount())

	volume, err := mesh.VolumeMm3()
	require.NoError(t, err)
	assert.InEpsilon(t, 1000.0, volume, 1e-5)
}

func TestReadSTL_BinaryTruncated(t *testing.T) {
	data := binarySTL(t, cubeMesh(10).Triangles)
	_, err := ReadSTL(data[:len(data)-25])
	require.ErrorIs(t, err, ErrMalformedMesh)
}

func TestReadSTL_BinaryTooShort(t *testing.T) {
	_, err := ReadSTL([]byte("not an stl"))
	require.ErrorIs(t, err, ErrMalformedMesh)
}

func TestReadSTL_ASCII(t *testing.T) {
	data := []byte(`solid part
  facet normal 0 0 1
    outer loop
      vertex 0.0 0.0 0.0
      vertex 10.0 0.0 0.0
      vertex 0.0 10.0 0.0
    endloop
  endfacet
endsolid part
`)
	mesh, err := ReadSTL(data)
	require.NoError(t, err)
	require.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, Point3{X: 10, Y: 0, Z: 0}, mesh.Triangles[0].B)
}

func TestReadSTL_ASCIIIncompleteTriangle(t *testing.T) {
	data := []byte(`solid part
  facet normal 0 0 1
    outer loop
      vertex 0.0 0.0 0.0
      vertex 10.0 0.0 0.0
    endloop
  endfacet
endsolid part
`)
	_, err := ReadSTL(data)
	require.ErrorIs(t, err, ErrMalformedMesh)
}

func TestReadSTL_ASCIIWithoutVertices(t *testing.T) {
	_, err := ReadSTL([]byte("solid empty\n  facet normal 0 0 1\n  endfacet\nendsolid\n"))
	require.ErrorIs(t, err, ErrMalformedMesh)
}
