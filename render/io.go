package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]r3.Triangle, error) {
	var err error
	var nt int
	result := make([]r3.Triangle, 0, 1<<12)
	buf := make([]r3.Triangle, 1024)
	for err == nil {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangle3Buffer struct {
	buf []r3.Triangle
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []r3.Triangle) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []r3.Triangle) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }

// sliceRenderer serves an already computed mesh.
type sliceRenderer struct {
	triangles []r3.Triangle
}

// NewSliceRenderer returns a Renderer reading from a triangle slice.
func NewSliceRenderer(t []r3.Triangle) Renderer {
	return &sliceRenderer{triangles: t}
}

func (s *sliceRenderer) ReadTriangles(dst []r3.Triangle) (int, error) {
	n := copy(dst, s.triangles)
	s.triangles = s.triangles[n:]
	if len(s.triangles) == 0 {
		return n, io.EOF
	}
	return n, nil
}
