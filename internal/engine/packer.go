// Package engine implements the photo page packing heuristic.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// Packer assigns items to pages. A Packer holds only configuration, so one
// value may serve any number of independent, concurrent Pack calls.
type Packer struct {
	Settings model.PageSettings
	logger   *zap.Logger
}

func New(settings model.PageSettings, logger *zap.Logger) *Packer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Packer{Settings: settings, logger: logger}
}

// decision is where and how an item goes: page index (len(pages) opens a
// new page) and orientation.
type decision struct {
	page    int
	rotated bool
}

// Pack places every item, in input order, onto as few pages as the
// first-fit shelf heuristic manages. Items are resized to the configured cap
// first. The input slice is not modified.
//
// All validation happens before the first page is created, so a run either
// fails without producing anything or places every item exactly once.
//
// Each item scans every page, so cost grows with items x pages x regions.
func (pk *Packer) Pack(items []model.Item) (model.Layout, error) {
	layout := model.Layout{Settings: pk.Settings, Pages: []model.PageResult{}}

	if err := pk.Settings.Validate(); err != nil {
		return model.Layout{}, err
	}

	prepared, err := pk.prepare(items)
	if err != nil {
		return model.Layout{}, err
	}

	var pages []*page
	for _, item := range prepared {
		d := choose(pages, pk.Settings.Interior(), item)
		if d.rotated {
			item.Rotate()
		}
		if d.page == len(pages) {
			pages = append(pages, newPage(pk.Settings))
			pk.logger.Debug("opened page",
				zap.Int("page", len(pages)),
				zap.String("trigger", item.Source))
		}
		if !pages[d.page].place(item) {
			// choose only returns pages that accept the item
			return model.Layout{}, fmt.Errorf("internal error: item %q rejected by page %d", item.Source, d.page+1)
		}
	}

	for _, p := range pages {
		layout.Pages = append(layout.Pages, p.result)
	}

	pk.logger.Info("packed items",
		zap.Int("items", len(prepared)),
		zap.Int("pages", len(layout.Pages)),
		zap.Float64("efficiency", layout.TotalEfficiency()))

	return layout, nil
}

// prepare copies, resizes and validates the items, rejecting any item that
// cannot fit an empty page in either orientation.
func (pk *Packer) prepare(items []model.Item) ([]model.Item, error) {
	interior := pk.Settings.Interior()
	prepared := make([]model.Item, 0, len(items))

	for _, item := range items {
		item.ResizeToFit(pk.Settings.MaxSideLength)
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if !fits(interior, item.Width, item.Height) && !fits(interior, item.Height, item.Width) {
			return nil, fmt.Errorf("%w: %q is %.3gx%.3g, page interior is %.3gx%.3g",
				model.ErrItemTooLarge, item.Source, item.Width, item.Height, interior.Width, interior.Height)
		}
		prepared = append(prepared, item)
	}
	return prepared, nil
}

// choose decides where an item goes without touching any state. Existing
// pages are always preferred in creation order, first as-is, then rotated.
// Only when no existing page takes the item is a new page opened, using the
// original orientation when it fits the empty interior.
func choose(pages []*page, interior model.Region, item model.Item) decision {
	for i, p := range pages {
		if _, _, ok := p.findRegion(item.Width, item.Height); ok {
			return decision{page: i}
		}
	}
	for i, p := range pages {
		if _, _, ok := p.findRegion(item.Height, item.Width); ok {
			return decision{page: i, rotated: true}
		}
	}
	if fits(interior, item.Width, item.Height) {
		return decision{page: len(pages)}
	}
	return decision{page: len(pages), rotated: true}
}
