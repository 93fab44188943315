// Package project saves and loads packed layouts so that pages can be
// re-rendered later without packing again.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// FormatVersion identifies the layout file format.
const FormatVersion = "1.0.0"

// LayoutFile is the top-level structure of a saved layout.
type LayoutFile struct {
	Version   string       `json:"version"`
	CreatedAt string       `json:"created_at"`
	Layout    model.Layout `json:"layout"`
}

// SaveLayout writes the layout to path as indented JSON, creating any missing
// parent directories.
func SaveLayout(path string, layout model.Layout) error {
	file := LayoutFile{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Layout:    layout,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}

// LoadLayout reads a layout written by SaveLayout and checks that every page
// and placement has usable dimensions.
func LoadLayout(path string) (model.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	var file LayoutFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Layout{}, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if file.Version == "" {
		return model.Layout{}, fmt.Errorf("invalid layout file: missing version field")
	}

	layout := file.Layout
	if layout.Pages == nil {
		layout.Pages = []model.PageResult{}
	}
	for i, page := range layout.Pages {
		settings := model.PageSettings{Width: page.Width, Height: page.Height, Margin: page.Margin}
		if err := settings.Validate(); err != nil {
			return model.Layout{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		for _, p := range page.Placements {
			if err := p.Item.Validate(); err != nil {
				return model.Layout{}, fmt.Errorf("page %d: %w", i+1, err)
			}
		}
	}
	return layout, nil
}
