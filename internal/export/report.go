package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// Sheet names used by ExportReport.
const (
	PlacementsSheet = "Placements"
	SummarySheet    = "Summary"
)

var placementHeaders = []string{"Page", "ID", "Source", "X (in)", "Y (in)", "Width (in)", "Height (in)", "Rotated"}

// ExportReport writes an Excel workbook with one row per placement and a
// per-page summary sheet.
func ExportReport(path string, layout model.Layout) error {
	if len(layout.Pages) == 0 {
		return ErrNoPages
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PlacementsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeRow(f, PlacementsSheet, 1, toCells(placementHeaders)); err != nil {
		return err
	}
	row := 2
	for pageIdx, page := range layout.Pages {
		for _, p := range page.Placements {
			cells := []interface{}{
				pageIdx + 1, p.Item.ID, p.Item.Source,
				p.X, p.Y, p.PlacedWidth(), p.PlacedHeight(), p.Item.Rotated,
			}
			if err := writeRow(f, PlacementsSheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	if err := f.SetCellStyle(PlacementsSheet, "A1", "H1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(PlacementsSheet, "C", "C", 40); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Page", "Photos", "Used Area (sq in)", "Page Area (sq in)", "Efficiency (%)"},
	}
	for i, page := range layout.Pages {
		summary = append(summary, []interface{}{
			i + 1, len(page.Placements), page.UsedArea(), page.TotalArea(), page.Efficiency(),
		})
	}
	summary = append(summary,
		[]interface{}{},
		[]interface{}{"Total pages", len(layout.Pages)},
		[]interface{}{"Total photos", layout.ItemCount()},
		[]interface{}{"Overall efficiency (%)", layout.TotalEfficiency()},
	)
	for i, cells := range summary {
		if err := writeRow(f, SummarySheet, i+1, cells); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "E1", headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	if len(cells) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
