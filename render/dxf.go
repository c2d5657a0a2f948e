package render

import (
	"errors"
	"fmt"

	"github.com/yofu/dxf"
)

// CreateDXF writes line segments to a DXF file on a single "Lines" layer.
func CreateDXF(path string, segments []Segment) error {
	if len(segments) == 0 {
		return errors.New("no segments to write")
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer("Lines", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if err := d.ChangeLayer("Lines"); err != nil {
		return err
	}
	for _, s := range segments {
		if _, err := d.Line(s.A.X, s.A.Y, 0, s.B.X, s.B.Y, 0); err != nil {
			return fmt.Errorf("dxf line: %w", err)
		}
	}
	return d.SaveAs(path)
}
