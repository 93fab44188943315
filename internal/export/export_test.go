package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// buildTestLayout creates a two page letter layout.
func buildTestLayout() model.Layout {
	settings := model.DefaultPageSettings()
	page := func(pl ...model.Placement) model.PageResult {
		return model.PageResult{Width: settings.Width, Height: settings.Height, Margin: settings.Margin, Placements: pl}
	}
	return model.Layout{
		Settings: settings,
		Pages: []model.PageResult{
			page(
				model.Placement{Item: model.Item{ID: "a1", Source: "/photos/beach.jpg", Width: 4, Height: 3}, X: 0.25, Y: 0.25},
				model.Placement{Item: model.Item{ID: "b2", Source: "/photos/house.jpg", Width: 3, Height: 5, Rotated: true}, X: 4.5, Y: 0.25},
			),
			page(
				model.Placement{Item: model.Item{ID: "c3", Source: "/photos/dog.png", Width: 5, Height: 5}, X: 0.25, Y: 0.25},
			),
		},
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 17, 22))
	img.Set(3, 3, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "not a PDF")
	return data
}

func pageCount(data []byte) int {
	return bytes.Count(data, []byte("<</Type /Page\n"))
}

// ─── AssemblePDF ───────────────────────────────────────────

func TestAssemblePDF_OnePagePerRaster(t *testing.T) {
	dir := t.TempDir()
	layout := buildTestLayout()
	layout.Pages[1].Width, layout.Pages[1].Height = 4, 6

	var rasters []string
	for i := range layout.Pages {
		p := filepath.Join(dir, fmt.Sprintf("page_%d.png", i+1))
		writeTestPNG(t, p)
		rasters = append(rasters, p)
	}

	out := filepath.Join(dir, "photos.pdf")
	require.NoError(t, AssemblePDF(out, layout, rasters))

	data := readPDF(t, out)
	assert.Equal(t, 2, pageCount(data))
	assert.Contains(t, string(data), "288.00 432.00", "4x6 in page size in points")
}

func TestAssemblePDF_Errors(t *testing.T) {
	dir := t.TempDir()
	layout := buildTestLayout()

	assert.ErrorIs(t, AssemblePDF(filepath.Join(dir, "x.pdf"), layout, nil), ErrNoPages)

	raster := filepath.Join(dir, "p.png")
	writeTestPNG(t, raster)
	assert.Error(t, AssemblePDF(filepath.Join(dir, "x.pdf"), layout, []string{raster}), "count mismatch")

	err := AssemblePDF(filepath.Join(dir, "x.pdf"), layout, []string{raster, filepath.Join(dir, "missing.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
}

// ─── ExportProof ───────────────────────────────────────────

func TestExportProof_PagesPlusSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.pdf")
	require.NoError(t, ExportProof(path, buildTestLayout()))

	assert.Equal(t, 3, pageCount(readPDF(t, path)))
}

func TestExportProof_Empty(t *testing.T) {
	err := ExportProof(filepath.Join(t.TempDir(), "proof.pdf"), model.Layout{})
	assert.ErrorIs(t, err, ErrNoPages)
}

// ─── ExportIndex ───────────────────────────────────────────

func TestCollectIndexEntries(t *testing.T) {
	entries := CollectIndexEntries(buildTestLayout())

	require.Len(t, entries, 3)
	assert.Equal(t, IndexEntry{
		ID: "b2", Source: "/photos/house.jpg", Page: 1,
		X: 4.5, Y: 0.25, Width: 3, Height: 5, Rotated: true,
	}, entries[1])
	assert.Equal(t, 2, entries[2].Page)
}

func TestIndexEntry_JSONKeys(t *testing.T) {
	data, err := json.Marshal(CollectIndexEntries(buildTestLayout())[0])
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"id", "source", "page", "x_in", "y_in", "width_in", "height_in", "rotated"} {
		assert.Contains(t, m, key)
	}
}

func TestExportIndex_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.pdf")
	require.NoError(t, ExportIndex(path, buildTestLayout()))

	assert.Equal(t, 1, pageCount(readPDF(t, path)))
}

func TestExportIndex_SpillsToSecondSheet(t *testing.T) {
	layout := buildTestLayout()
	var many []model.Placement
	for i := 0; i < labelsPerPage+1; i++ {
		many = append(many, model.Placement{Item: model.Item{Source: "p.jpg", Width: 0.1, Height: 0.1}, X: 0.25, Y: 0.25})
	}
	layout.Pages[0].Placements = many

	path := filepath.Join(t.TempDir(), "index.pdf")
	require.NoError(t, ExportIndex(path, layout))

	assert.Equal(t, 2, pageCount(readPDF(t, path)))
}

func TestExportIndex_NoPlacements(t *testing.T) {
	layout := model.Layout{Pages: []model.PageResult{{Width: 8.5, Height: 11}}}
	assert.ErrorIs(t, ExportIndex(filepath.Join(t.TempDir(), "i.pdf"), layout), ErrNoPages)
}

// ─── ExportCutGuides ───────────────────────────────────────

func TestExportCutGuides_Outlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guides.dxf")
	require.NoError(t, ExportCutGuides(path, buildTestLayout()))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var lines []*entity.Line
	for _, e := range drawing.Entities() {
		if l, ok := e.(*entity.Line); ok {
			lines = append(lines, l)
		}
	}
	// Two paper outlines plus three photos, four edges each
	require.Len(t, lines, 4*5)

	maxX := 0.0
	for _, l := range lines {
		for _, x := range []float64{l.Start[0], l.End[0]} {
			if x > maxX {
				maxX = x
			}
		}
		assert.GreaterOrEqual(t, l.Start[1], 0.0)
		assert.LessOrEqual(t, l.Start[1], 11.0)
	}
	assert.InDelta(t, 8.5+PageGap+8.5, maxX, 1e-6, "second page is offset to the right")

	// First photo on page 1: top edge at 11 - 0.25 once flipped
	photo := lines[4:8]
	ys := map[float64]bool{}
	for _, l := range photo {
		ys[l.Start[1]] = true
	}
	assert.True(t, ys[10.75])
	assert.True(t, ys[7.75])
}

func TestExportCutGuides_Empty(t *testing.T) {
	assert.ErrorIs(t, ExportCutGuides(filepath.Join(t.TempDir(), "g.dxf"), model.Layout{}), ErrNoPages)
}

func TestPageLayerName(t *testing.T) {
	assert.Equal(t, "PAGE_1", PageLayerName(0))
	assert.Equal(t, "PAGE_12", PageLayerName(11))
}

// ─── ExportReport ──────────────────────────────────────────

func TestExportReport_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, ExportReport(path, buildTestLayout()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PlacementsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(PlacementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, placementHeaders, rows[0])
	assert.Equal(t, []string{"1", "b2", "/photos/house.jpg", "4.5", "0.25", "3", "5", "TRUE"}, rows[2])
	assert.Equal(t, "2", rows[3][0])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Page", summary[0][0])
	assert.Equal(t, []string{"1", "2"}, summary[1][:2])
	assert.Equal(t, []string{"Total photos", "3"}, summary[len(summary)-2])
}

func TestExportReport_Empty(t *testing.T) {
	assert.ErrorIs(t, ExportReport(filepath.Join(t.TempDir(), "r.xlsx"), model.Layout{}), ErrNoPages)
}
