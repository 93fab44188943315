package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// ComparisonScenario defines a named set of page settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PageSettings
}

// ComparisonResult holds the packing result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Layout       model.Layout
	PagesUsed    int
	ItemsPlaced  int
	WastePercent float64
	Err          error
}

// CompareScenarios packs the same items once per scenario and returns the
// results in scenario order. Scenarios run concurrently; each run is sequential.
func CompareScenarios(scenarios []ComparisonScenario, items []model.Item, logger *zap.Logger) []ComparisonResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]ComparisonResult, len(scenarios))

	var wg sync.WaitGroup
	for i, scenario := range scenarios {
		wg.Add(1)
		go func(i int, scenario ComparisonScenario) {
			defer wg.Done()

			layout, err := New(scenario.Settings, logger.With(zap.String("scenario", scenario.Name))).Pack(items)
			res := ComparisonResult{Scenario: scenario, Err: err}
			if err == nil {
				res.Layout = layout
				res.PagesUsed = len(layout.Pages)
				res.ItemsPlaced = layout.ItemCount()
				res.WastePercent = 100.0 - layout.TotalEfficiency()
			}
			results[i] = res
		}(i, scenario)
	}
	wg.Wait()

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.PageSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: turn the page
	turned := base
	turned.Width, turned.Height = base.Height, base.Width
	if base.Width < base.Height {
		scenarios = append(scenarios, ComparisonScenario{Name: "Landscape", Settings: turned})
	} else if base.Width > base.Height {
		scenarios = append(scenarios, ComparisonScenario{Name: "Portrait", Settings: turned})
	}

	// Scenario: the other common office paper
	alt := model.PaperSizes["a4"]
	altName := "A4"
	if base.Width == alt.Width && base.Height == alt.Height {
		alt = model.PaperSizes["letter"]
		altName = "Letter"
	}
	altPaper := base
	altPaper.Width, altPaper.Height = alt.Width, alt.Height
	scenarios = append(scenarios, ComparisonScenario{Name: altName, Settings: altPaper})

	// Scenario: tighter margin
	if base.Margin > 0 {
		half := base
		half.Margin = base.Margin * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Margin %.3g in (half)", half.Margin),
			Settings: half,
		})
	}

	return scenarios
}
