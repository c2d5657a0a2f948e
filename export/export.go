// Package export meshes a built mount and writes its printable parts,
// assembly and drawings to a directory.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/printmount/touchmount/assembly"
	"github.com/printmount/touchmount/mount"
	"github.com/printmount/touchmount/render"
	"github.com/printmount/touchmount/sdf"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options configures an export run.
type Options struct {
	// Dir is created if missing.
	Dir string
	// Resolution is the number of mesh cells along the longest side of the
	// plate. Every part is meshed with the same cell size.
	Resolution int
	// Preview also renders PNG images of the plate and assembly.
	Preview bool
	// Concurrency bounds how many parts are meshed at once.
	Concurrency int
	// View used for previews. The zero value uses render.DefaultView.
	View render.View
}

// Artefact is a file written by Run.
type Artefact struct {
	Part string
	Path string
	// Triangles is zero for drawings.
	Triangles int
}

// Run writes the mount artefacts:
//
//	<Name>_Plate.stl      printable plate
//	<Name>_Spacer.stl     printable spacer
//	<Name>.3mf            coloured assembly, one object per distinct part shape
//	<Name>_Assembly.stl   assembly as a single mesh
//	<Name>_Plate.dxf      plate profile
//	<Name>_Layout.svg     plate profile with spacer holes and bosses
//	<Name>_Plate.png      previews, when enabled
//	<Name>_Assembly.png
//
// Artefacts are returned sorted by path.
func Run(ctx context.Context, log zerolog.Logger, opts Options, m *mount.Mount) ([]Artefact, error) {
	if m == nil {
		return nil, errors.New("export: nil mount")
	}
	if opts.Resolution < 2 {
		return nil, fmt.Errorf("export: resolution %d below 2", opts.Resolution)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.View.Width == 0 {
		opts.View = render.DefaultView
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	r := &run{
		ctx:    ctx,
		log:    log,
		opts:   opts,
		m:      m,
		cell:   CellSize(m, opts.Resolution),
		plate:  m.Printable(m.Plate),
		spacer: m.Printable(m.Spacer),
		meshes: map[sdf.SDF3][]r3.Triangle{},
	}
	log.Debug().Float64("cell", r.cell).Msg("mesh cell size")
	if err := r.meshAll(); err != nil {
		return nil, err
	}
	if err := r.writeAll(); err != nil {
		return nil, err
	}
	if opts.Preview {
		if err := r.previews(); err != nil {
			return nil, err
		}
	}
	sort.Slice(r.done, func(i, j int) bool { return r.done[i].Path < r.done[j].Path })
	return r.done, nil
}

type run struct {
	ctx  context.Context
	log  zerolog.Logger
	opts Options
	m    *mount.Mount
	// mesh cell edge in mm.
	cell float64
	// printable shapes.
	plate, spacer sdf.SDF3

	mu     sync.Mutex
	meshes map[sdf.SDF3][]r3.Triangle
	done   []Artefact
}

func (r *run) path(suffix string) string {
	return filepath.Join(r.opts.Dir, r.m.Name+suffix)
}

// meshAll meshes the printable parts and every distinct shape of the assembly.
func (r *run) meshAll() error {
	shapes := []sdf.SDF3{r.plate, r.spacer}
	for _, p := range r.m.Assembly.WorldShapes() {
		shapes = append(shapes, p.Shape)
	}
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(r.opts.Concurrency)
	seen := map[sdf.SDF3]bool{}
	for _, s := range shapes {
		if s == nil || seen[s] {
			continue
		}
		seen[s] = true
		s := s
		g.Go(func() error {
			start := time.Now()
			tris, err := Mesh(ctx, s, r.cell)
			if err != nil {
				return err
			}
			r.mu.Lock()
			r.meshes[s] = tris
			r.mu.Unlock()
			r.log.Debug().Int("triangles", len(tris)).Dur("elapsed", time.Since(start)).Msg("meshed shape")
			return nil
		})
	}
	return g.Wait()
}

func (r *run) writeAll() error {
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(r.opts.Concurrency)
	task := func(part, suffix string, write func(path string) (int, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			path := r.path(suffix)
			n, err := write(path)
			if err != nil {
				return fmt.Errorf("write %s: %w", part, err)
			}
			r.record(Artefact{Part: part, Path: path, Triangles: n}, start)
			return nil
		})
	}
	task(r.m.Plate.Label, "_Plate.stl", r.stlWriter(r.plate))
	task(r.m.Spacer.Label, "_Spacer.stl", r.stlWriter(r.spacer))
	task(r.m.Assembly.Label, ".3mf", r.write3MF)
	task(r.m.Assembly.Label, "_Assembly.stl", func(path string) (int, error) {
		tris := r.assemblyMesh()
		return len(tris), render.CreateSTL(path, render.NewSliceRenderer(tris))
	})
	task(r.m.Plate.Label+" profile", "_Plate.dxf", func(path string) (int, error) {
		return 0, render.CreateDXF(path, render.Contour2D(r.m.Sketch(), 2*r.opts.Resolution))
	})
	task(r.m.Plate.Label+" layout", "_Layout.svg", func(path string) (int, error) {
		return 0, render.Layout(path, render.LayoutParams{
			Title:   r.m.Name,
			Profile: r.m.Sketch(),
			Cells:   2 * r.opts.Resolution,
			Markers: []render.MarkerSet{
				{Label: "spacer holes", Points: r.m.SpacerHoles()},
				{Label: "bosses", Points: r.m.Bosses()},
			},
		})
	})
	return g.Wait()
}

func (r *run) previews() error {
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, pv := range []struct{ part, from, to string }{
		{r.m.Plate.Label, "_Plate.stl", "_Plate.png"},
		{r.m.Assembly.Label, "_Assembly.stl", "_Assembly.png"},
	} {
		pv := pv
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			path := r.path(pv.to)
			if err := render.PNG(r.path(pv.from), path, r.opts.View); err != nil {
				return fmt.Errorf("preview %s: %w", pv.part, err)
			}
			r.record(Artefact{Part: pv.part, Path: path}, start)
			return nil
		})
	}
	return g.Wait()
}

func (r *run) record(a Artefact, start time.Time) {
	r.mu.Lock()
	r.done = append(r.done, a)
	r.mu.Unlock()
	ev := r.log.Info().Str("part", a.Part).Str("path", a.Path)
	if a.Triangles > 0 {
		ev = ev.Int("triangles", a.Triangles)
	}
	ev.Dur("elapsed", time.Since(start)).Msg("wrote")
}

func (r *run) mesh(s sdf.SDF3) []r3.Triangle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meshes[s]
}

func (r *run) stlWriter(s sdf.SDF3) func(string) (int, error) {
	return func(path string) (int, error) {
		tris := r.mesh(s)
		return len(tris), render.CreateSTL(path, render.NewSliceRenderer(tris))
	}
}

// write3MF writes one object per distinct shape, placed once per part using it.
func (r *run) write3MF(path string) (int, error) {
	var objects []render.Object3MF
	index := map[sdf.SDF3]int{}
	total := 0
	for _, p := range r.m.Assembly.WorldShapes() {
		i, ok := index[p.Shape]
		if !ok {
			i = len(objects)
			index[p.Shape] = i
			objects = append(objects, render.Object3MF{
				Name:      objectName(p),
				Color:     p.Color,
				Triangles: r.mesh(p.Shape),
			})
		}
		objects[i].Items = append(objects[i].Items, p.World)
		total += len(objects[i].Triangles)
	}
	return total, render.Create3MF(path, objects)
}

// objectName drops the copy number of repeated parts.
func objectName(p assembly.Placed) string {
	name := p.Label
	for i := len(name) - 1; i > 0; i-- {
		c := name[i]
		if c == ' ' {
			return name[:i]
		}
		if c < '0' || c > '9' {
			break
		}
	}
	return name
}

func (r *run) assemblyMesh() []r3.Triangle {
	var out []r3.Triangle
	for _, p := range r.m.Assembly.WorldShapes() {
		out = append(out, TransformMesh(r.mesh(p.Shape), p.World)...)
	}
	return out
}

// CellSize returns the mesh cell edge used for every part of m: the plate's
// longest side split in resolution cells, reduced so the thinnest part is
// at least two cells thick.
func CellSize(m *mount.Mount, resolution int) float64 {
	cell := longest(m.Plate.Shape().Bounds()) / float64(resolution)
	shapes := []sdf.SDF3{m.Spacer.Shape()}
	for _, p := range m.Assembly.WorldShapes() {
		shapes = append(shapes, p.Shape)
	}
	for _, s := range shapes {
		if s != nil {
			cell = math.Min(cell, thinnest(s.Bounds())/2)
		}
	}
	return cell
}

func longest(b r3.Box) float64 {
	d := r3.Sub(b.Max, b.Min)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

func thinnest(b r3.Box) float64 {
	d := r3.Sub(b.Max, b.Min)
	return math.Min(d.X, math.Min(d.Y, d.Z))
}

// Mesh renders s to triangles with cubes of side cell. It stops early when
// ctx is cancelled.
func Mesh(ctx context.Context, s sdf.SDF3, cell float64) ([]r3.Triangle, error) {
	oc := render.NewOctreeRendererCell(s, cell)
	buf := make([]r3.Triangle, 1024)
	var out []r3.Triangle
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := oc.ReadTriangles(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// TransformMesh returns a copy of tris moved by t.
func TransformMesh(tris []r3.Triangle, t sdf.Transform) []r3.Triangle {
	out := make([]r3.Triangle, len(tris))
	for i, tri := range tris {
		for j := range tri {
			out[i][j] = t.Apply(tri[j])
		}
	}
	return out
}
