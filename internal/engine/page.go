package engine

import (
	"sort"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// epsilon absorbs floating point drift from repeated margin arithmetic.
const epsilon = 1e-9

// page tracks the placements and unclaimed free regions of one output page.
//
// Free regions are carved with a two-remainder shelf split: the right
// remainder is only as tall as the placed item and the bottom remainder
// spans the full width of the consumed region. Space right of the item but
// below its bottom edge belongs to the bottom remainder alone, so a tall
// item can never use the strip beside a shorter neighbour.
type page struct {
	result    model.PageResult
	freeRects []model.Region
}

func newPage(settings model.PageSettings) *page {
	return &page{
		result: model.PageResult{
			Width:  settings.Width,
			Height: settings.Height,
			Margin: settings.Margin,
		},
		freeRects: []model.Region{settings.Interior()},
	}
}

// findRegion returns the first free region, in list order, that can hold a
// w x h rectangle. This is first-fit, not best-fit.
func (p *page) findRegion(w, h float64) (int, model.Region, bool) {
	for i, r := range p.freeRects {
		if fits(r, w, h) {
			return i, r, true
		}
	}
	return -1, model.Region{}, false
}

// place puts the item at the top-left corner of the first qualifying free
// region. It returns false and leaves the page untouched when nothing fits.
func (p *page) place(item model.Item) bool {
	idx, chosen, ok := p.findRegion(item.Width, item.Height)
	if !ok {
		return false
	}

	p.result.Placements = append(p.result.Placements, model.Placement{
		Item: item,
		X:    chosen.X,
		Y:    chosen.Y,
	})

	p.freeRects = append(p.freeRects[:idx], p.freeRects[idx+1:]...)
	p.freeRects = append(p.freeRects, splitRegion(chosen, item.Width, item.Height, p.result.Margin)...)

	// Largest gaps first
	sort.SliceStable(p.freeRects, func(i, j int) bool {
		return p.freeRects[i].Area() > p.freeRects[j].Area()
	})
	return true
}

// splitRegion derives the right and bottom remainders left over after a
// w x h item is placed at the region's origin. Empty remainders are dropped.
func splitRegion(r model.Region, w, h, margin float64) []model.Region {
	var out []model.Region

	right := model.Region{
		X:      r.X + w + margin,
		Y:      r.Y,
		Width:  r.Width - w - margin,
		Height: h,
	}
	if right.Width > epsilon {
		out = append(out, right)
	}

	bottom := model.Region{
		X:      r.X,
		Y:      r.Y + h + margin,
		Width:  r.Width,
		Height: r.Height - h - margin,
	}
	if bottom.Height > epsilon {
		out = append(out, bottom)
	}

	return out
}

func fits(r model.Region, w, h float64) bool {
	return w <= r.Width+epsilon && h <= r.Height+epsilon
}
