package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hpinc/go3mf"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Object3MF is a named mesh placed one or more times in a 3MF build.
type Object3MF struct {
	Name      string
	Color     color.RGBA
	Triangles []r3.Triangle
	// Items holds a world transform per placed copy of the mesh.
	// No items means a single copy at the origin.
	Items []sdf.Transform
}

// materialsID is the resource ID of the base material group. Objects
// follow it.
const materialsID = 1

// Create3MF writes objects to a 3MF package at path. Units are millimeters.
// Each object gets its own base material carrying its name and colour.
func Create3MF(path string, objects []Object3MF) error {
	model, err := build3MFModel(objects)
	if err != nil {
		return err
	}
	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := w.Encode(model); err != nil {
		w.Close()
		return fmt.Errorf("encode 3MF model: %w", err)
	}
	return w.Close()
}

func build3MFModel(objects []Object3MF) (*go3mf.Model, error) {
	if len(objects) == 0 {
		return nil, errors.New("no objects to write")
	}
	model := &go3mf.Model{Units: go3mf.UnitMillimeter}
	materials := &go3mf.BaseMaterials{ID: materialsID}
	model.Resources.Assets = append(model.Resources.Assets, materials)
	for i, obj := range objects {
		if len(obj.Triangles) == 0 {
			return nil, fmt.Errorf("object %q has no triangles", obj.Name)
		}
		id := uint32(materialsID + 1 + i)
		materials.Materials = append(materials.Materials, go3mf.Base{
			Name:  obj.Name,
			Color: obj.Color,
		})
		model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
			ID:     id,
			Name:   obj.Name,
			Type:   go3mf.ObjectTypeModel,
			PID:    materialsID,
			PIndex: uint32(i),
			Mesh:   mesh3MF(obj.Triangles),
		})
		items := obj.Items
		if len(items) == 0 {
			items = []sdf.Transform{{}}
		}
		for _, t := range items {
			model.Build.Items = append(model.Build.Items, &go3mf.Item{
				ObjectID:  id,
				Transform: matrix3MF(t),
			})
		}
	}
	return model, nil
}

// mesh3MF shares vertices between triangles.
func mesh3MF(triangles []r3.Triangle) *go3mf.Mesh {
	mesh := new(go3mf.Mesh)
	mb := go3mf.NewMeshBuilder(mesh)
	mesh.Triangles.Triangle = make([]go3mf.Triangle, 0, len(triangles))
	for _, t := range triangles {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: mb.AddVertex(point3MF(t[0])),
			V2: mb.AddVertex(point3MF(t[1])),
			V3: mb.AddVertex(point3MF(t[2])),
		})
	}
	return mesh
}

func point3MF(v r3.Vec) go3mf.Point3D {
	return go3mf.Point3D{float32(v.X), float32(v.Y), float32(v.Z)}
}

// matrix3MF lays t out the way 3MF does, treating points as row vectors.
func matrix3MF(t sdf.Transform) go3mf.Matrix {
	r := t.Rows()
	return go3mf.Matrix{
		float32(r[0]), float32(r[4]), float32(r[8]), 0,
		float32(r[1]), float32(r[5]), float32(r[9]), 0,
		float32(r[2]), float32(r[6]), float32(r[10]), 0,
		float32(r[3]), float32(r[7]), float32(r[11]), 1,
	}
}
