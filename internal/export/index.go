package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// IndexEntry holds the data encoded into each photo's index label QR code.
type IndexEntry struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	X       float64 `json:"x_in"`
	Y       float64 `json:"y_in"`
	Width   float64 `json:"width_in"`
	Height  float64 `json:"height_in"`
	Rotated bool    `json:"rotated"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectIndexEntries lists every placement of the layout in page order.
func CollectIndexEntries(layout model.Layout) []IndexEntry {
	var entries []IndexEntry
	for pageIdx, page := range layout.Pages {
		for _, p := range page.Placements {
			entries = append(entries, IndexEntry{
				ID:      p.Item.ID,
				Source:  p.Item.Source,
				Page:    pageIdx + 1,
				X:       p.X,
				Y:       p.Y,
				Width:   p.PlacedWidth(),
				Height:  p.PlacedHeight(),
				Rotated: p.Item.Rotated,
			})
		}
	}
	return entries
}

// ExportIndex generates a PDF of QR-coded labels, one per placed photo, so
// that printed photos can be matched back to their files. Labels use the
// Avery 5160 sheet format (3 columns x 10 rows on US Letter).
func ExportIndex(path string, layout model.Layout) error {
	entries := CollectIndexEntries(layout)
	if len(entries) == 0 {
		return ErrNoPages
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, entry := range entries {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, entry); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", entry.Source, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, entry IndexEntry) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal index entry: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, filepath.Base(entry.Source), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.2f x %.2f in", entry.Width, entry.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pageInfo := fmt.Sprintf("Page %d @ (%.2f, %.2f)", entry.Page, entry.X, entry.Y)
	pdf.CellFormat(textW, 3, pageInfo, "", 1, "L", false, 0, "")

	if entry.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
