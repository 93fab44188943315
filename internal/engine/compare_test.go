package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PhotoPack/internal/model"
)

func TestCompareScenarios_ResultsInScenarioOrder(t *testing.T) {
	base := defaultTestSettings()
	scenarios := BuildDefaultScenarios(base)
	in := items([2]float64{5, 5}, [2]float64{5, 5}, [2]float64{5, 5}, [2]float64{5, 5})

	results := CompareScenarios(scenarios, in, nil)

	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		require.NoError(t, r.Err)
		assert.Equal(t, 4, r.ItemsPlaced)
		assert.Equal(t, len(r.Layout.Pages), r.PagesUsed)
		assert.Greater(t, r.WastePercent, 0.0)
	}
	assert.Equal(t, 2, results[0].PagesUsed, "current settings match a plain Pack run")
}

func TestCompareScenarios_MatchesSequentialPack(t *testing.T) {
	in := randomItems(3, 50)
	scenarios := BuildDefaultScenarios(model.DefaultPageSettings())

	results := CompareScenarios(scenarios, in, nil)

	for i, sc := range scenarios {
		want, err := New(sc.Settings, nil).Pack(in)
		require.NoError(t, err)
		assert.Equal(t, want, results[i].Layout, "scenario %q", sc.Name)
	}
}

func TestCompareScenarios_ErrorIsPerScenario(t *testing.T) {
	ok := defaultTestSettings()
	small := ok
	small.Width, small.Height = 4, 6

	results := CompareScenarios([]ComparisonScenario{
		{Name: "letter", Settings: ok},
		{Name: "postcard", Settings: small},
	}, items([2]float64{7, 7}), nil)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].PagesUsed)
	assert.True(t, errors.Is(results[1].Err, model.ErrItemTooLarge))
	assert.Equal(t, 0, results[1].PagesUsed)
}

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultPageSettings()
	scenarios := BuildDefaultScenarios(base)

	names := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Current Settings", "Landscape", "A4", "Margin 0.125 in (half)"}, names)

	assert.Equal(t, 11.0, scenarios[1].Settings.Width)
	assert.Equal(t, 8.5, scenarios[1].Settings.Height)
	assert.Equal(t, 0.125, scenarios[3].Settings.Margin)
}

func TestBuildDefaultScenarios_A4FallsBackToLetter(t *testing.T) {
	base := model.PageSettings{Width: 8.27, Height: 11.69, Margin: 0}
	scenarios := BuildDefaultScenarios(base)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Current Settings", "Landscape", "Letter"}, names)
}
