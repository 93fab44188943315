package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Defaults for letter-page photo sheets.
const (
	DefaultMargin        = 0.25 // inches
	DefaultMaxSideLength = 3.5  // inches
	DefaultDPI           = 300
)

// PageSettings holds the geometry shared by every page of a packing run.
type PageSettings struct {
	Width         float64 `json:"width"`           // inches
	Height        float64 `json:"height"`          // inches
	Margin        float64 `json:"margin"`          // Border around page edges and gap between items
	MaxSideLength float64 `json:"max_side_length"` // Resize cap applied to every item before packing, 0 = disabled
}

// DefaultPageSettings returns US Letter with the classic photo-sheet margin and cap.
func DefaultPageSettings() PageSettings {
	letter := PaperSizes["letter"]
	return PageSettings{
		Width:         letter.Width,
		Height:        letter.Height,
		Margin:        DefaultMargin,
		MaxSideLength: DefaultMaxSideLength,
	}
}

// Interior returns the margin-inset page area.
func (s PageSettings) Interior() Region {
	return Region{
		X:      s.Margin,
		Y:      s.Margin,
		Width:  s.Width - 2*s.Margin,
		Height: s.Height - 2*s.Margin,
	}
}

// Validate reports ErrInvalidDimension for unusable page geometry.
func (s PageSettings) Validate() error {
	if !positiveFinite(s.Width) || !positiveFinite(s.Height) {
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidDimension, s.Width, s.Height)
	}
	if s.Margin < 0 || math.IsNaN(s.Margin) {
		return fmt.Errorf("%w: negative margin %g", ErrInvalidDimension, s.Margin)
	}
	if s.Margin >= math.Min(s.Width, s.Height)/2 {
		return fmt.Errorf("%w: margin %g leaves no interior on a %gx%g page", ErrInvalidDimension, s.Margin, s.Width, s.Height)
	}
	if s.MaxSideLength < 0 || math.IsNaN(s.MaxSideLength) {
		return fmt.Errorf("%w: negative max side length %g", ErrInvalidDimension, s.MaxSideLength)
	}
	return nil
}

// PaperSize is a named page size in inches.
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

// Landscape returns the paper with its long side horizontal.
func (p PaperSize) Landscape() PaperSize {
	if p.Width >= p.Height {
		return p
	}
	return PaperSize{Name: p.Name, Width: p.Height, Height: p.Width}
}

// Built-in paper sizes, portrait orientation.
var PaperSizes = map[string]PaperSize{
	"letter":  {Name: "letter", Width: 8.5, Height: 11},
	"legal":   {Name: "legal", Width: 8.5, Height: 14},
	"tabloid": {Name: "tabloid", Width: 11, Height: 17},
	"a4":      {Name: "a4", Width: 8.27, Height: 11.69},
	"a3":      {Name: "a3", Width: 11.69, Height: 16.54},
	"4x6":     {Name: "4x6", Width: 4, Height: 6},
	"5x7":     {Name: "5x7", Width: 5, Height: 7},
}

// LookupPaper returns a paper size by case-insensitive name.
func LookupPaper(name string) (PaperSize, bool) {
	p, ok := PaperSizes[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PaperNames returns the sorted list of built-in paper names.
func PaperNames() []string {
	names := make([]string, 0, len(PaperSizes))
	for n := range PaperSizes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
