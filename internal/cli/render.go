package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/PhotoPack/internal/project"
	"github.com/piwi3910/PhotoPack/internal/render"
)

type renderFlags struct {
	outputFlags
	placeholder bool
}

func newRenderCommand(g *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Render pages and the PDF from a saved layout",
		Long: `Render a layout saved by "pack --layout" or "plan --layout" without
packing again. Page size and placements come from the layout file; only the
resolution (--dpi) and output options apply.

Examples:
  photopack render holiday.json --out prints
  photopack render holiday.json --placeholder --dpi 72`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()

			layout, err := project.LoadLayout(args[0])
			if err != nil {
				return err
			}

			var loader render.ImageLoader = render.FileLoader{}
			if flags.placeholder {
				loader = &render.PlaceholderLoader{}
			}
			return writeOutputs(env, layout, &flags.outputFlags, loader)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.placeholder, "placeholder", false, "Draw colored swatches instead of reading the photos")

	return cmd
}
