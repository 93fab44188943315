package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Item is a rectangle to be placed on a page, typically a photograph.
// Dimensions are in page units (inches by default).
type Item struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"` // Opaque reference to the original content (a file path for photos)
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated"` // Whether width and height were swapped from the source orientation
}

func NewItem(source string, w, h float64) Item {
	return Item{
		ID:     uuid.New().String()[:8],
		Source: source,
		Width:  w,
		Height: h,
	}
}

// ResizeToFit uniformly scales the item down so that neither side exceeds
// maxSide. Items already within the bound are left untouched, as are calls
// with a non-positive cap.
func (it *Item) ResizeToFit(maxSide float64) {
	if maxSide <= 0 {
		return
	}
	if it.Width <= maxSide && it.Height <= maxSide {
		return
	}
	scale := maxSide / math.Max(it.Width, it.Height)
	it.Width *= scale
	it.Height *= scale
}

// Rotate swaps width and height and toggles the rotation flag.
func (it *Item) Rotate() {
	it.Width, it.Height = it.Height, it.Width
	it.Rotated = !it.Rotated
}

// Rotated90 returns a rotated copy of the item, leaving the receiver unchanged.
func (it Item) Rotated90() Item {
	it.Rotate()
	return it
}

// Area returns width × height.
func (it Item) Area() float64 {
	return it.Width * it.Height
}

// Validate reports ErrInvalidDimension for non-positive or non-finite sizes.
func (it Item) Validate() error {
	if !positiveFinite(it.Width) || !positiveFinite(it.Height) {
		return fmt.Errorf("%w: item %q has size %gx%g", ErrInvalidDimension, it.Source, it.Width, it.Height)
	}
	return nil
}

// Region is an axis-aligned rectangle on a page. It is used both for free
// space tracking and for describing occupied areas.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Region) Area() float64 {
	return r.Width * r.Height
}

// Fits reports whether a w × h rectangle fits inside the region.
func (r Region) Fits(w, h float64) bool {
	return r.Width >= w && r.Height >= h
}

// Right returns the x coordinate of the region's trailing edge.
func (r Region) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the region's trailing edge.
func (r Region) Bottom() float64 {
	return r.Y + r.Height
}

// Contains reports whether inner lies entirely within r.
func (r Region) Contains(inner Region) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// Overlaps reports whether the two regions share any interior area.
// Touching edges do not count as overlap.
func (r Region) Overlaps(other Region) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Placement represents a single item placed on a page.
type Placement struct {
	Item Item    `json:"item"`
	X    float64 `json:"x"` // Position from left edge
	Y    float64 `json:"y"` // Position from top edge
}

// PlacedWidth returns the effective width on the page. Rotation is already
// applied to the item's dimensions.
func (p Placement) PlacedWidth() float64 {
	return p.Item.Width
}

// PlacedHeight returns the effective height on the page.
func (p Placement) PlacedHeight() float64 {
	return p.Item.Height
}

// Rect returns the rectangle the item occupies on the page.
func (p Placement) Rect() Region {
	return Region{X: p.X, Y: p.Y, Width: p.PlacedWidth(), Height: p.PlacedHeight()}
}

// PageResult represents one output page with its placed items.
type PageResult struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Margin     float64     `json:"margin"`
	Placements []Placement `json:"placements"`
}

// Interior returns the margin-inset area available for placements.
func (pr PageResult) Interior() Region {
	return Region{
		X:      pr.Margin,
		Y:      pr.Margin,
		Width:  pr.Width - 2*pr.Margin,
		Height: pr.Height - 2*pr.Margin,
	}
}

// UsedArea returns the total area used by placed items.
func (pr PageResult) UsedArea() float64 {
	var total float64
	for _, p := range pr.Placements {
		total += p.PlacedWidth() * p.PlacedHeight()
	}
	return total
}

// TotalArea returns the page area.
func (pr PageResult) TotalArea() float64 {
	return pr.Width * pr.Height
}

// Efficiency returns the usage percentage.
func (pr PageResult) Efficiency() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return (pr.UsedArea() / ta) * 100.0
}

// Layout is the result of one packing run.
type Layout struct {
	Settings PageSettings `json:"settings"`
	Pages    []PageResult `json:"pages"`
}

// ItemCount returns the number of placed items across all pages.
func (l Layout) ItemCount() int {
	total := 0
	for _, p := range l.Pages {
		total += len(p.Placements)
	}
	return total
}

// TotalEfficiency returns overall page usage percentage.
func (l Layout) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, p := range l.Pages {
		usedArea += p.UsedArea()
		totalArea += p.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
