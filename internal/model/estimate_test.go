package model

import (
	"math"
	"testing"
)

func TestEstimatePagesBasic(t *testing.T) {
	s := DefaultPageSettings()
	s.MaxSideLength = 0
	items := []Item{{Width: 4, Height: 3}, {Width: 4, Height: 3}, {Width: 4, Height: 3}}

	est := EstimatePages(items, s)

	// Each item with margin: 4.25 x 3.25
	expectedArea := 4.25 * 3.25 * 3
	if math.Abs(est.TotalItemArea-expectedArea) > 1e-9 {
		t.Errorf("expected total area %.4f, got %.4f", expectedArea, est.TotalItemArea)
	}
	if math.Abs(est.PageArea-8.25*10.75) > 1e-9 {
		t.Errorf("expected page area %.4f, got %.4f", 8.25*10.75, est.PageArea)
	}
	if est.PagesMin != 1 {
		t.Errorf("expected 1 page, got %d", est.PagesMin)
	}
}

func TestEstimatePagesFourSquares(t *testing.T) {
	s := DefaultPageSettings()
	s.MaxSideLength = 0
	items := []Item{{Width: 5, Height: 5}, {Width: 5, Height: 5}, {Width: 5, Height: 5}, {Width: 5, Height: 5}}

	est := EstimatePages(items, s)
	if est.PagesMin != 2 {
		t.Errorf("expected at least 2 pages, got %d (exact %.3f)", est.PagesMin, est.PagesExact)
	}
}

func TestEstimatePagesAppliesSideCap(t *testing.T) {
	s := DefaultPageSettings()
	s.Margin = 0
	items := []Item{{Width: 7, Height: 5}}

	est := EstimatePages(items, s)
	if math.Abs(est.TotalItemArea-3.5*2.5) > 1e-9 {
		t.Errorf("expected capped area 8.75, got %.4f", est.TotalItemArea)
	}
	if items[0].Width != 7 {
		t.Error("input items must not be modified")
	}
}

func TestEstimatePagesExactFit(t *testing.T) {
	s := PageSettings{Width: 4, Height: 6}
	items := []Item{{Width: 4, Height: 6}, {Width: 4, Height: 6}}

	est := EstimatePages(items, s)
	if est.PagesMin != 2 || est.PagesExact != 2 {
		t.Errorf("expected exactly 2 pages, got %d (%.3f)", est.PagesMin, est.PagesExact)
	}
}

func TestEstimatePagesEmptyAndInvalid(t *testing.T) {
	if est := EstimatePages(nil, DefaultPageSettings()); est.PagesMin != 0 {
		t.Errorf("expected 0 pages for no items, got %d", est.PagesMin)
	}

	est := EstimatePages([]Item{{Width: 1, Height: 1}}, PageSettings{})
	if est.PagesMin != 0 || est.TotalItemArea <= 0 {
		t.Errorf("expected area but no page count for invalid settings, got %+v", est)
	}
}
