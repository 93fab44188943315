// Package importer turns photo folders and CSV/Excel manifests into items
// ready for packing. It supports automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Source   int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"source":   {"source", "file", "filename", "file name", "path", "photo", "image", "picture"},
	"width":    {"width", "w", "width_in", "width (in)"},
	"height":   {"height", "h", "height_in", "height (in)"},
	"quantity": {"quantity", "qty", "copies", "count", "prints"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (source, width, height, quantity) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Source: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "source":
					if mapping.Source == -1 {
						mapping.Source = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Source: 0, Width: 1, Height: 2, Quantity: 3}, false
	}
	return mapping, true
}

// ImportManifest imports items from a CSV or Excel manifest, chosen by file extension.
// Relative sources are resolved against the manifest's directory.
func ImportManifest(path string, defaultDPI float64) ImportResult {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result = ImportExcel(path, defaultDPI)
	default:
		result = ImportCSV(path, defaultDPI)
	}
	return result
}

// ImportCSV imports items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, defaultDPI float64) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", filepath.Dir(path), defaultDPI, result.Warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a specific delimiter.
// Relative sources are resolved against baseDir.
func ImportCSVFromReader(reader io.Reader, delimiter rune, baseDir string, defaultDPI float64) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", baseDir, defaultDPI, nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports items from the first sheet of an Excel workbook.
func ImportExcel(path string, defaultDPI float64) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", filepath.Dir(path), defaultDPI, nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix, baseDir string, defaultDPI float64, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		if mapping.Source == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Source")
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		items, errMsg, warning := parseRow(row, mapping, rowLabel, baseDir, defaultDPI)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Items = append(result.Items, items...)
	}

	return result
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts one item per requested copy. When width and height are
// both blank the size is measured from the image file itself.
func parseRow(row []string, mapping ColumnMapping, rowLabel, baseDir string, defaultDPI float64) ([]model.Item, string, string) {
	source := getCell(row, mapping.Source)
	if source == "" {
		return nil, fmt.Sprintf("%s: Missing source", rowLabel), ""
	}
	if !filepath.IsAbs(source) && baseDir != "" {
		source = filepath.Join(baseDir, source)
	}

	var warning string
	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil || n <= 0 {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = n
	}

	widthStr := getCell(row, mapping.Width)
	heightStr := getCell(row, mapping.Height)

	var width, height float64
	switch {
	case widthStr == "" && heightStr == "":
		measured, err := MeasureImage(source, defaultDPI)
		if err != nil {
			return nil, fmt.Sprintf("%s: Cannot measure %s: %v", rowLabel, source, err), ""
		}
		width, height = measured.Width, measured.Height
		warning = fmt.Sprintf("%s: Size taken from image file", rowLabel)
	case widthStr == "":
		return nil, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	case heightStr == "":
		return nil, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	default:
		var err error
		if width, err = strconv.ParseFloat(widthStr, 64); err != nil {
			return nil, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
		}
		if height, err = strconv.ParseFloat(heightStr, 64); err != nil {
			return nil, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), ""
		}
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}

	items := make([]model.Item, 0, qty)
	for i := 0; i < qty; i++ {
		items = append(items, model.NewItem(source, width, height))
	}
	return items, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
