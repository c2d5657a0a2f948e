package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a mesh. ReadTriangles fills t and
// returns the number of triangles written. io.EOF is returned once the
// mesh is exhausted, possibly alongside the last triangles.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}
