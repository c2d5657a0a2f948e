package render_test

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hschendel/stl"
	"github.com/printmount/touchmount/form2"
	"github.com/printmount/touchmount/form3"
	"github.com/printmount/touchmount/render"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

const imgDelta = 0.02

func TestOctreeSphereIsClosed(t *testing.T) {
	const radius = 1.0
	s, err := form3.Sphere(radius)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(s, 40))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles rendered")
	}
	edges := make(map[[2]r3.Vec]int)
	for _, tri := range model {
		for i := range tri {
			edges[[2]r3.Vec{tri[i], tri[(i+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 {
			t.Fatalf("directed edge %v used %d times", e, n)
		}
		if edges[[2]r3.Vec{e[1], e[0]}] != 1 {
			t.Fatalf("edge %v has no opposite edge", e)
		}
	}
	want := 4. / 3. * math.Pi * radius * radius * radius
	got := meshVolume(model)
	if math.Abs(got-want)/want > 0.02 {
		t.Errorf("sphere volume got %g, want %g", got, want)
	}
}

func TestOctreeSmallBuffer(t *testing.T) {
	// reading with a buffer smaller than a cube's output must yield the same mesh.
	box, err := form3.Box(r3.Vec{X: 2, Y: 1, Z: 1}, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	want, err := render.RenderAll(render.NewOctreeRenderer(box, 16))
	if err != nil {
		t.Fatal(err)
	}
	r := render.NewOctreeRenderer(box, 16)
	var got []r3.Triangle
	buf := make([]r3.Triangle, 5)
	for {
		n, err := r.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("triangle %d differs: %v != %v", i, got[i], want[i])
		}
	}
}

func TestOctreeCellSize(t *testing.T) {
	const cell = 0.4
	for _, size := range []r3.Vec{
		{X: 60, Y: 40, Z: 1.6},
		{X: 2, Y: 2, Z: 2},
		{X: 6, Y: 6, Z: 0.9},
	} {
		box, err := form3.Box(size, 0)
		if err != nil {
			t.Fatal(err)
		}
		model, err := render.RenderAll(render.NewOctreeRendererCell(box, cell))
		if err != nil {
			t.Fatal(err)
		}
		if len(model) == 0 {
			t.Fatalf("box %v rendered no triangles", size)
		}
		// every triangle lies within one cell.
		for _, tri := range model {
			for i := range tri {
				if d := r3.Norm(r3.Sub(tri[i], tri[(i+1)%3])); d > cell*math.Sqrt(3)+1e-9 {
					t.Fatalf("box %v: edge of length %g exceeds cell", size, d)
				}
			}
		}
		var top float64
		for _, tri := range model {
			for _, v := range tri {
				top = math.Max(top, v.Z)
			}
		}
		if math.Abs(top-size.Z/2) > cell {
			t.Errorf("box %v mesh top at %g, want %g", size, top, size.Z/2)
		}
	}
}

func TestSTLWriteRead(t *testing.T) {
	box, err := form3.Box(r3.Vec{X: 10, Y: 5, Z: 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(box, 30))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render.WriteSTL(&buf, model); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84+50*len(model) {
		t.Fatalf("unexpected STL size %d for %d triangles", buf.Len(), len(model))
	}
	got, err := render.ReadSTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		for j := range got[i] {
			if r3.Norm(r3.Sub(got[i][j], model[i][j])) > 1e-5 {
				t.Fatalf("vertex %d of triangle %d: got %v, want %v", j, i, got[i][j], model[i][j])
			}
		}
	}
}

func TestReadSTLErrors(t *testing.T) {
	model := []r3.Triangle{{{X: 0}, {X: 1}, {Y: 1}}}
	var good bytes.Buffer
	if err := render.WriteSTL(&good, model); err != nil {
		t.Fatal(err)
	}

	// Flip normal z component.
	flipped := bytes.Clone(good.Bytes())
	copy(flipped[84+8:], []byte{0, 0, 0x80, 0xbf}) // -1.0
	got, err := render.ReadSTL(bytes.NewReader(flipped))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("expected normal mismatch, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("triangles must be returned on normal mismatch")
	}

	nan := bytes.Clone(good.Bytes())
	copy(nan[84+12:], []byte{0, 0, 0xc0, 0x7f}) // NaN
	_, err = render.ReadSTL(bytes.NewReader(nan))
	if err == nil || errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("expected fatal NaN error, got %v", err)
	}

	_, err = render.ReadSTL(bytes.NewReader(good.Bytes()[:60]))
	if err == nil {
		t.Error("expected error on truncated header")
	}

	_, err = render.ReadSTL(bytes.NewReader(good.Bytes()[:100]))
	if err == nil {
		t.Error("expected error on truncated triangle")
	}
}

func TestCreateSTLMatchesWriteSTL(t *testing.T) {
	dir := t.TempDir()
	s, err := form3.Cylinder(4, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	streamed := filepath.Join(dir, "streamed.stl")
	if err := render.CreateSTL(streamed, render.NewOctreeRenderer(s, 24)); err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(s, 24))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render.WriteSTL(&buf, model); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(streamed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, buf.Bytes()) {
		t.Error("CreateSTL and WriteSTL output differ")
	}

	// Independent reader.
	solid, err := stl.ReadFile(streamed)
	if err != nil {
		t.Fatal(err)
	}
	if len(solid.Triangles) != len(model) {
		t.Fatalf("stl package read %d triangles, want %d", len(solid.Triangles), len(model))
	}
	for i, tri := range solid.Triangles {
		for j, v := range tri.Vertices {
			want := model[i][j]
			if math.Abs(float64(v[0])-want.X) > 1e-5 || math.Abs(float64(v[1])-want.Y) > 1e-5 || math.Abs(float64(v[2])-want.Z) > 1e-5 {
				t.Fatalf("triangle %d vertex %d: got %v, want %v", i, j, v, want)
			}
		}
	}
}

func TestContourAndDXF(t *testing.T) {
	const radius = 10.0
	c, err := form2.Circle(radius)
	if err != nil {
		t.Fatal(err)
	}
	segs := render.Contour2D(c, 100)
	var length float64
	for _, s := range segs {
		length += r2.Norm(r2.Sub(s.B, s.A))
		for _, p := range []r2.Vec{s.A, s.B} {
			if d := math.Abs(r2.Norm(p) - radius); d > 0.01 {
				t.Fatalf("contour point %v off the circle by %g", p, d)
			}
		}
	}
	if want := 2 * math.Pi * radius; math.Abs(length-want)/want > 0.01 {
		t.Errorf("contour length got %g, want %g", length, want)
	}
	path := filepath.Join(t.TempDir(), "circle.dxf")
	if err := render.CreateDXF(path, segs); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("dxf file not written: %v", err)
	}
	if err := render.CreateDXF(path, nil); err == nil {
		t.Error("expected error writing empty DXF")
	}
}

func TestContourDifference(t *testing.T) {
	// A plate with a hole has an outer and inner contour.
	plate, err := form2.Box(r2.Vec{X: 40, Y: 20}, 2)
	if err != nil {
		t.Fatal(err)
	}
	hole, err := form2.Circle(4)
	if err != nil {
		t.Fatal(err)
	}
	segs := render.Contour2D(sdf.Difference2D(plate, hole), 120)
	var inner, outer int
	for _, s := range segs {
		if r2.Norm(s.A) < 5 {
			inner++
		} else {
			outer++
		}
	}
	if inner == 0 || outer == 0 {
		t.Errorf("expected inner and outer contours, got %d inner %d outer segments", inner, outer)
	}
}

func TestPNGPreview(t *testing.T) {
	dir := t.TempDir()
	box, err := form3.Box(r3.Vec{X: 1, Y: 1, Z: 1}, .1)
	if err != nil {
		t.Fatal(err)
	}
	stlPath := filepath.Join(dir, "box.stl")
	if err := render.CreateSTL(stlPath, render.NewOctreeRenderer(box, 20)); err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView
	view.Width, view.Height = 160, 90
	png1 := filepath.Join(dir, "box1.png")
	png2 := filepath.Join(dir, "box2.png")
	for _, p := range []string{png1, png2} {
		if err := render.PNG(stlPath, p, view); err != nil {
			t.Fatal(err)
		}
	}
	fp, err := os.Open(png1)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	cfg, err := png.DecodeConfig(fp)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != view.Width || cfg.Height != view.Height {
		t.Errorf("image size %dx%d, want %dx%d", cfg.Width, cfg.Height, view.Width, view.Height)
	}
	if !equalImages(t, png1, png2) {
		t.Error("repeated preview renders differ")
	}
}

func TestLayout(t *testing.T) {
	plate, err := form2.Box(r2.Vec{X: 40, Y: 20}, 2)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "layout.svg")
	err = render.Layout(path, render.LayoutParams{
		Title:   "plate",
		Profile: plate,
		Cells:   80,
		Markers: []render.MarkerSet{
			{Label: "holes", Points: []r2.Vec{{X: -15, Y: -5}, {X: 15, Y: 5}}},
			{Label: "empty"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("<svg")) {
		t.Error("layout is not an SVG document")
	}
}

func meshVolume(model []r3.Triangle) (v float64) {
	for _, t := range model {
		v += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return v / 6
}

func equalImages(t *testing.T, png1, png2 string) bool {
	b1, err := os.ReadFile(png1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(png2)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", b1, b2, imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	return equal
}
