package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/printmount/touchmount/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera and image of a PNG preview.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Output image size in pixels.
	Width, Height int
	// Supersampling factor used for antialiasing.
	Scale int
	// Object and background colors as hex strings.
	Color, Background string
}

// DefaultView is an isometric view of the model fitted in a bi-unit cube.
var DefaultView = View{
	Up:         r3.Vec{Z: 1},
	Eye:        d3.Elem(2.4),
	Near:       1,
	Far:        10,
	Width:      768,
	Height:     432,
	Scale:      2,
	Color:      "#468966",
	Background: "#FFF8E3",
}

// PNG renders the STL file at stlPath with a phong shader and saves the image to pngPath.
func PNG(stlPath, pngPath string, view View) error {
	if view.Width <= 0 || view.Height <= 0 {
		return errors.New("invalid preview image size")
	}
	if view.Scale < 1 {
		view.Scale = 1
	}
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*view.Scale, view.Height*view.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(pngPath, image)
}
