package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PhotoPack/internal/engine"
	"github.com/piwi3910/PhotoPack/internal/export"
	"github.com/piwi3910/PhotoPack/internal/model"
	"github.com/piwi3910/PhotoPack/internal/project"
)

type planFlags struct {
	manifest string
	layout   string
	proof    string
}

func newPlanCommand(g *globalFlags) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan <input-dir>",
		Short: "Pack photos and print the layout without rendering",
		Long: `Pack the photos in a directory (or listed in a manifest) and print where
each one goes. Nothing is rendered.

Examples:
  photopack plan ./holiday
  photopack plan ./holiday --paper a4 --json
  photopack plan ./holiday --layout holiday.json --proof proof.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()
			return runPlan(env, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "CSV or Excel manifest listing photos and sizes")
	cmd.Flags().StringVar(&flags.layout, "layout", "", "Save the layout as JSON for a later render")
	cmd.Flags().StringVar(&flags.proof, "proof", "", "Write a layout proof PDF")

	return cmd
}

func runPlan(env *runEnv, dir string, flags *planFlags) error {
	items, err := loadItems(env, dir, flags.manifest)
	if err != nil {
		return err
	}

	layout, err := engine.New(env.settings, env.logger).Pack(items)
	if err != nil {
		return err
	}

	if flags.layout != "" {
		if err := project.SaveLayout(flags.layout, layout); err != nil {
			return err
		}
	}
	if flags.proof != "" && len(layout.Pages) > 0 {
		if err := export.ExportProof(flags.proof, layout); err != nil {
			return fmt.Errorf("write proof: %w", err)
		}
	}

	if env.json {
		return writeJSON(env.out, layout)
	}
	printLayout(env.out, layout)
	fmt.Fprintf(env.out, "Lower bound: %d pages by area\n", model.EstimatePages(items, env.settings).PagesMin)
	return nil
}

// printLayout writes a human-readable page by page listing.
func printLayout(w io.Writer, layout model.Layout) {
	for i, page := range layout.Pages {
		fmt.Fprintf(w, "Page %d (%.2f x %.2f in, %d photos, %.1f%% used)\n",
			i+1, page.Width, page.Height, len(page.Placements), page.Efficiency())
		for j, p := range page.Placements {
			rotated := ""
			if p.Item.Rotated {
				rotated = " [rotated]"
			}
			fmt.Fprintf(w, "  %2d. %-30s %5.2f x %5.2f at (%.2f, %.2f)%s\n",
				j+1, filepath.Base(p.Item.Source), p.PlacedWidth(), p.PlacedHeight(), p.X, p.Y, rotated)
		}
	}
	fmt.Fprintf(w, "Total: %d pages, %d photos, %.1f%% used\n",
		len(layout.Pages), layout.ItemCount(), layout.TotalEfficiency())
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
