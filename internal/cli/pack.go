package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/engine"
	"github.com/piwi3910/PhotoPack/internal/export"
	"github.com/piwi3910/PhotoPack/internal/model"
	"github.com/piwi3910/PhotoPack/internal/project"
	"github.com/piwi3910/PhotoPack/internal/render"
)

// outputFlags are the output files shared by pack and render.
type outputFlags struct {
	outDir string
	pdf    string
	index  string
	dxf    string
	report string
	proof  string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.outDir, "out", "output", "Directory for the page rasters")
	cmd.Flags().StringVar(&o.pdf, "pdf", "", "PDF file to assemble (default <out>/photos.pdf)")
	cmd.Flags().StringVar(&o.index, "index", "", "Write a QR-coded photo index PDF")
	cmd.Flags().StringVar(&o.dxf, "dxf", "", "Write DXF cut guides")
	cmd.Flags().StringVar(&o.report, "report", "", "Write an Excel placement report")
	cmd.Flags().StringVar(&o.proof, "proof", "", "Write a layout proof PDF")
}

type packFlags struct {
	outputFlags
	manifest string
	layout   string
}

func newPackCommand(g *globalFlags) *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack <input-dir>",
		Short: "Pack photos, render the pages and assemble a PDF",
		Long: `Pack every photo in a directory (or listed in a manifest) onto pages,
render each page as page_<n>.png and assemble the pages into one PDF.

Examples:
  photopack pack ./holiday
  photopack pack ./holiday --paper a4 --margin 0.125 --out prints
  photopack pack ./holiday --manifest sizes.csv --index index.pdf --report report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()
			return runPack(env, args[0], flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "CSV or Excel manifest listing photos and sizes")
	cmd.Flags().StringVar(&flags.layout, "layout", "", "Also save the layout as JSON")

	return cmd
}

func runPack(env *runEnv, dir string, flags *packFlags) error {
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
		env.logger.Info("layout saved", zap.String("path", flags.layout))
	}

	return writeOutputs(env, layout, &flags.outputFlags, render.FileLoader{})
}

// writeOutputs renders the pages, assembles the PDF and writes any optional
// exports that were asked for.
func writeOutputs(env *runEnv, layout model.Layout, o *outputFlags, loader render.ImageLoader) error {
	if len(layout.Pages) == 0 {
		fmt.Fprintln(env.out, "No photos to pack.")
		return nil
	}

	renderer := render.NewRenderer(env.cfg.DPI, env.cfg.Workers, loader, env.logger)
	pngs, err := renderer.WritePages(layout, o.outDir)
	if err != nil {
		return err
	}

	pdfPath := o.pdf
	if pdfPath == "" {
		pdfPath = filepath.Join(o.outDir, "photos.pdf")
	}
	if err := export.AssemblePDF(pdfPath, layout, pngs); err != nil {
		return fmt.Errorf("assemble PDF: %w", err)
	}

	exports := []struct {
		path string
		name string
		fn   func(string, model.Layout) error
	}{
		{o.index, "index", export.ExportIndex},
		{o.dxf, "cut guides", export.ExportCutGuides},
		{o.report, "report", export.ExportReport},
		{o.proof, "proof", export.ExportProof},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.fn(e.path, layout); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
		env.logger.Info("export written", zap.String("kind", e.name), zap.String("path", e.path))
	}

	fmt.Fprintf(env.out, "Packed %d photos onto %d pages (%.1f%% used)\n",
		layout.ItemCount(), len(layout.Pages), layout.TotalEfficiency())
	fmt.Fprintf(env.out, "PDF: %s\n", pdfPath)
	return nil
}
