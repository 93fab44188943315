package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// itemColor represents an RGB color for a placed photo.
type itemColor struct {
	R, G, B int
}

// itemColors match the placeholder palette used for raster previews.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Proof layout constants (Letter landscape in mm).
const (
	proofWidth    = 279.4
	proofHeight   = 215.9
	proofMargin   = 12.0
	headerHeight  = 12.0
	legendHeight  = 30.0
	drawAreaTop   = proofMargin + headerHeight + 5.0
	minLabelWidth = 15.0
)

// ExportProof writes a layout proof: one diagram page per packed page showing
// every placement as a colored box, followed by a summary page. No image
// data is read, so proofs can be produced straight from a plan.
func ExportProof(path string, layout model.Layout) error {
	if len(layout.Pages) == 0 {
		return ErrNoPages
	}

	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, proofMargin)

	for i, page := range layout.Pages {
		pdf.AddPage()
		renderProofPage(pdf, page, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, layout)

	return pdf.OutputFileAndClose(path)
}

// renderProofPage draws a single packed page on the current PDF page.
func renderProofPage(pdf *fpdf.Fpdf, page model.PageResult, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(proofMargin, proofMargin)
	title := fmt.Sprintf("Page %d (%.2f x %.2f in)", pageNum, page.Width, page.Height)
	pdf.CellFormat(proofWidth-2*proofMargin, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(proofMargin, proofMargin+headerHeight)
	stats := fmt.Sprintf("Photos: %d | Used: %.2f sq in | Page: %.2f sq in | Efficiency: %.1f%%",
		len(page.Placements), page.UsedArea(), page.TotalArea(), page.Efficiency())
	pdf.CellFormat(proofWidth-2*proofMargin, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := proofWidth - 2*proofMargin
	drawHeight := proofHeight - drawAreaTop - proofMargin - legendHeight
	scale := math.Min(drawWidth/page.Width, drawHeight/page.Height)

	canvasW := page.Width * scale
	canvasH := page.Height * scale
	offsetX := proofMargin + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Paper
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Printable interior
	interior := page.Interior()
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(offsetX+interior.X*scale, offsetY+interior.Y*scale, interior.Width*scale, interior.Height*scale, "D")
	pdf.SetDashPattern(nil, 0)

	for i, p := range page.Placements {
		col := itemColors[i%len(itemColors)]
		pw := p.PlacedWidth() * scale
		ph := p.PlacedHeight() * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > minLabelWidth && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("%d", i+1)
			dims := fmt.Sprintf("%.2fx%.2f", p.PlacedWidth(), p.PlacedHeight())
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")

			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, page, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, page, offsetY+canvasH+6)
}

// drawDimensionAnnotations adds width and height labels outside the paper.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, page model.PageResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f in", page.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.2f in", page.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend lists the placed photos by number under the page diagram.
func drawLegend(pdf *fpdf.Fpdf, page model.PageResult, startY float64) {
	if len(page.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(proofMargin, startY)
	pdf.CellFormat(30, 4, "Photos placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := proofMargin + 32
	maxX := proofWidth - proofMargin

	for i, p := range page.Placements {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%d %s", i+1, filepath.Base(p.Item.Source))
		if p.Item.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = proofMargin
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, layout model.Layout) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(proofMargin, proofMargin)
	pdf.CellFormat(proofWidth-2*proofMargin, 10, "Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(proofMargin, proofMargin+12, proofWidth-proofMargin, proofMargin+12)

	y := proofMargin + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(proofMargin, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	s := layout.Settings
	summaryItems := []struct {
		label string
		value string
	}{
		{"Pages Used", fmt.Sprintf("%d", len(layout.Pages))},
		{"Photos Placed", fmt.Sprintf("%d", layout.ItemCount())},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", layout.TotalEfficiency())},
		{"Page Size", fmt.Sprintf("%.2f x %.2f in", s.Width, s.Height)},
		{"Margin", fmt.Sprintf("%.3g in", s.Margin)},
		{"Max Side Length", fmt.Sprintf("%.3g in", s.MaxSideLength)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(proofMargin+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(proofMargin, y)
	pdf.CellFormat(100, 7, "Page Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 35, 40, 70}
	headers := []string{"Page", "Photos", "Efficiency", "Used / Total Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := proofMargin
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, page := range layout.Pages {
		if y > proofHeight-proofMargin-6 {
			pdf.AddPage()
			y = proofMargin
		}
		xPos = proofMargin
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(page.Placements)),
			fmt.Sprintf("%.1f%%", page.Efficiency()),
			fmt.Sprintf("%.2f / %.2f sq in", page.UsedArea(), page.TotalArea()),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(proofMargin, proofHeight-proofMargin)
	pdf.CellFormat(proofWidth-2*proofMargin, 4, "Generated by PhotoPack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
