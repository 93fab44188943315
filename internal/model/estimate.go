package model

import "math"

// PageEstimate is an area-based lower bound on the pages a set of items needs.
type PageEstimate struct {
	TotalItemArea float64 `json:"total_item_area"` // Item area including the margin allowance (sq in)
	PageArea      float64 `json:"page_area"`       // Usable area of one page including the margin allowance (sq in)
	PagesExact    float64 `json:"pages_exact"`     // Exact fractional number of pages
	PagesMin      int     `json:"pages_min"`       // No packing can use fewer pages than this
}

// EstimatePages computes how many pages the items need at the very least.
// Items are scaled to the settings' side cap first. Each item is charged one
// margin on two sides, which is what it costs on the page. Invalid settings
// give a zero estimate.
func EstimatePages(items []Item, settings PageSettings) PageEstimate {
	m := settings.Margin

	var totalArea float64
	for _, it := range items {
		it.ResizeToFit(settings.MaxSideLength)
		totalArea += (it.Width + m) * (it.Height + m)
	}

	if settings.Validate() != nil {
		return PageEstimate{TotalItemArea: totalArea}
	}

	// n items side by side need n*w + (n-1)*m <= W - 2m, so charging every
	// item w+m leaves W-m per row
	pageArea := (settings.Width - m) * (settings.Height - m)
	exact := totalArea / pageArea

	return PageEstimate{
		TotalItemArea: totalArea,
		PageArea:      pageArea,
		PagesExact:    exact,
		PagesMin:      int(math.Ceil(exact - 1e-9)),
	}
}
