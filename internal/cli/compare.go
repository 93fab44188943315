package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PhotoPack/internal/engine"
	"github.com/piwi3910/PhotoPack/internal/model"
)

func newCompareCommand(g *globalFlags) *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "compare <input-dir>",
		Short: "Compare page counts across paper, orientation and margin choices",
		Long: `Pack the same photos under the current settings and a few alternatives
(turned paper, the other office paper size, half the margin) and print how
many pages each needs.

Examples:
  photopack compare ./holiday
  photopack compare ./holiday --paper 5x7 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()

			items, err := loadItems(env, args[0], manifest)
			if err != nil {
				return err
			}

			results := engine.CompareScenarios(engine.BuildDefaultScenarios(env.settings), items, env.logger)
			if env.json {
				return writeJSON(env.out, comparisonJSON(results, items))
			}
			printComparison(env.out, results, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "CSV or Excel manifest listing photos and sizes")
	return cmd
}

type scenarioJSON struct {
	Name         string  `json:"name"`
	PageWidth    float64 `json:"page_width"`
	PageHeight   float64 `json:"page_height"`
	Margin       float64 `json:"margin"`
	Pages        int     `json:"pages"`
	MinPages     int     `json:"min_pages"`
	Photos       int     `json:"photos"`
	WastePercent float64 `json:"waste_percent"`
	Error        string  `json:"error,omitempty"`
}

func comparisonJSON(results []engine.ComparisonResult, items []model.Item) []scenarioJSON {
	out := make([]scenarioJSON, 0, len(results))
	for _, r := range results {
		s := scenarioJSON{
			Name:         r.Scenario.Name,
			PageWidth:    r.Scenario.Settings.Width,
			PageHeight:   r.Scenario.Settings.Height,
			Margin:       r.Scenario.Settings.Margin,
			Pages:        r.PagesUsed,
			MinPages:     model.EstimatePages(items, r.Scenario.Settings).PagesMin,
			Photos:       r.ItemsPlaced,
			WastePercent: r.WastePercent,
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		out = append(out, s)
	}
	return out
}

// printComparison writes one row per scenario. MIN is the area lower bound
// on pages for that scenario.
func printComparison(w io.Writer, results []engine.ComparisonResult, items []model.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tPAGE\tMARGIN\tPAGES\tMIN\tPHOTOS\tWASTE")
	for _, r := range results {
		s := r.Scenario.Settings
		minPages := model.EstimatePages(items, s).PagesMin
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%.2fx%.2f\t%.3g\t-\t%d\t-\t%v\n", r.Scenario.Name, s.Width, s.Height, s.Margin, minPages, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2fx%.2f\t%.3g\t%d\t%d\t%d\t%.1f%%\n",
			r.Scenario.Name, s.Width, s.Height, s.Margin, r.PagesUsed, minPages, r.ItemsPlaced, r.WastePercent)
	}
	_ = tw.Flush()
}
