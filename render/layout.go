package render

import (
	"errors"
	"math"

	"github.com/printmount/touchmount/internal/d2"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MarkerSet is a labelled group of points drawn over a layout.
type MarkerSet struct {
	Label  string
	Points []r2.Vec
}

// LayoutParams configures a layout drawing.
type LayoutParams struct {
	Title   string
	Profile sdf.SDF2
	// Cells is the sampling resolution along the longest side of the profile.
	Cells   int
	Markers []MarkerSet
	// Drawing size. Zero values default to 20x12cm.
	Width, Height vg.Length
}

// Layout draws the outline of a 2D profile and its markers to path.
// The image format is picked from the path extension (svg, png, pdf...).
func Layout(path string, params LayoutParams) error {
	if params.Profile == nil {
		return errors.New("nil layout profile")
	}
	if params.Cells < 2 {
		params.Cells = 200
	}
	if params.Width == 0 || params.Height == 0 {
		params.Width, params.Height = 20*vg.Centimeter, 12*vg.Centimeter
	}
	p := plot.New()
	p.Title.Text = params.Title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(plotter.NewGrid())

	outline := plotter.NewContour(newSDFGrid(params.Profile, params.Cells), []float64{0}, palette.Heat(1, 1))
	p.Add(outline)

	for i, set := range params.Markers {
		if len(set.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(set.Points))
		for j, pt := range set.Points {
			xys[j].X, xys[j].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(set.Label, sc)
	}
	return p.Save(params.Width, params.Height, path)
}

// sdfGrid samples an SDF2 on a regular grid for contour plotting.
type sdfGrid struct {
	origin r2.Vec
	step   float64
	nx, ny int
	z      []float64
}

var _ plotter.GridXYZ = (*sdfGrid)(nil)

func newSDFGrid(s sdf.SDF2, cells int) *sdfGrid {
	bb := d2.Box(s.Bounds()).ScaleAboutCenter(1.05)
	size := bb.Size()
	step := d2.Max(size) / float64(cells)
	g := &sdfGrid{
		origin: bb.Min,
		step:   step,
		nx:     int(math.Ceil(size.X/step)) + 1,
		ny:     int(math.Ceil(size.Y/step)) + 1,
	}
	g.z = make([]float64, g.nx*g.ny)
	for r := 0; r < g.ny; r++ {
		for c := 0; c < g.nx; c++ {
			g.z[r*g.nx+c] = s.Evaluate(r2.Vec{X: g.X(c), Y: g.Y(r)})
		}
	}
	return g
}

func (g *sdfGrid) Dims() (c, r int)   { return g.nx, g.ny }
func (g *sdfGrid) Z(c, r int) float64 { return g.z[r*g.nx+c] }
func (g *sdfGrid) X(c int) float64    { return g.origin.X + float64(c)*g.step }
func (g *sdfGrid) Y(r int) float64    { return g.origin.Y + float64(r)*g.step }
