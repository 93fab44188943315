package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// PageGap is the horizontal distance between pages in a cut guide drawing.
const PageGap = 1.0

// PageLayerName returns the DXF layer holding the outlines of a page.
func PageLayerName(index int) string {
	return fmt.Sprintf("PAGE_%d", index+1)
}

// ExportCutGuides writes a DXF drawing with one layer per page. Each layer has
// the paper outline and a rectangle per placed photo, in inches. Pages are
// laid out left to right, PageGap apart. DXF's Y axis points up, so page
// coordinates are flipped.
func ExportCutGuides(path string, layout model.Layout) error {
	if len(layout.Pages) == 0 {
		return ErrNoPages
	}

	d := dxf.NewDrawing()
	offsetX := 0.0
	for i, page := range layout.Pages {
		name := PageLayerName(i)
		if _, err := d.AddLayer(name, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", name, err)
		}
		if err := d.ChangeLayer(name); err != nil {
			return fmt.Errorf("select layer %s: %w", name, err)
		}

		paper := model.Region{Width: page.Width, Height: page.Height}
		if err := drawRect(d, paper, offsetX, page.Height); err != nil {
			return err
		}
		for _, p := range page.Placements {
			if err := drawRect(d, p.Rect(), offsetX, page.Height); err != nil {
				return err
			}
		}
		offsetX += page.Width + PageGap
	}

	return d.SaveAs(path)
}

// drawRect adds the four edges of r as LINE entities.
func drawRect(d *drawing.Drawing, r model.Region, offsetX, pageHeight float64) error {
	x0, x1 := offsetX+r.X, offsetX+r.Right()
	y0, y1 := pageHeight-r.Bottom(), pageHeight-r.Y
	edges := [4][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return fmt.Errorf("draw line: %w", err)
		}
	}
	return nil
}
