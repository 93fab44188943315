// Package export writes packed layouts to printable and machine-readable
// formats: the final photo PDF, layout proofs, QR-coded index labels, DXF
// cut guides and spreadsheet reports.
package export

import (
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// ErrNoPages is returned when a layout holds nothing to export.
var ErrNoPages = errors.New("no pages to export")

// AssemblePDF writes one PDF page per raster. Each page has the layout's page
// size in inches and the raster covers it edge to edge. pagePNGs must be in
// page order and match the layout's page count.
func AssemblePDF(path string, layout model.Layout, pagePNGs []string) error {
	if len(pagePNGs) == 0 {
		return ErrNoPages
	}
	if len(pagePNGs) != len(layout.Pages) {
		return fmt.Errorf("layout has %d pages but %d rasters were given", len(layout.Pages), len(pagePNGs))
	}

	first := layout.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("PhotoPack", true)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, png := range pagePNGs {
		page := layout.Pages[i]
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		pdf.RegisterImageOptions(png, opts)
		pdf.ImageOptions(png, 0, 0, page.Width, page.Height, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}
