// Package cli implements the cobra commands of the photopack binary.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/config"
	"github.com/piwi3910/PhotoPack/internal/logging"
	"github.com/piwi3910/PhotoPack/internal/model"
)

// Exit codes returned by Execute.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidInput = 2 // Bad dimensions or a photo that fits no page
)

// Version is set from main at build time.
var Version = "dev"

// globalFlags are shared by every subcommand through persistent flags.
type globalFlags struct {
	configFile string
	paper      string
	margin     float64
	maxSide    float64
	dpi        float64
	landscape  bool
	workers    int
	logLevel   string
	jsonOutput bool
}

// NewRootCommand creates the root command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "photopack",
		Short: "Pack photos onto printable pages",
		Long: `photopack arranges photographs onto as few printable pages as it can,
renders each page as a raster image and assembles the pages into a PDF.

Photos keep their input order; each one goes on the earliest page with room,
rotated when that saves a page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "Config file (YAML, JSON or JSONC; default ~/.photopack/config.yaml)")
	pf.StringVar(&g.paper, "paper", "", "Paper size: "+joinPaperNames())
	pf.Float64Var(&g.margin, "margin", model.DefaultMargin, "Margin around the page and between photos, in inches")
	pf.Float64Var(&g.maxSide, "max-side", model.DefaultMaxSideLength, "Scale photos down so no side exceeds this many inches (0 disables)")
	pf.Float64Var(&g.dpi, "dpi", model.DefaultDPI, "Raster resolution and fallback density for images without one")
	pf.BoolVar(&g.landscape, "landscape", false, "Turn the paper to landscape")
	pf.IntVar(&g.workers, "workers", 0, "Pages rendered in parallel (default: number of CPUs)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(newPackCommand(g))
	rootCmd.AddCommand(newPlanCommand(g))
	rootCmd.AddCommand(newCompareCommand(g))
	rootCmd.AddCommand(newRenderCommand(g))

	return rootCmd
}

// Execute runs the root command and exits with the matching code.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, model.ErrInvalidDimension), errors.Is(err, model.ErrItemTooLarge):
		return ExitInvalidInput
	default:
		return ExitGeneralError
	}
}

// runEnv is what every command needs once flags are parsed.
type runEnv struct {
	cfg      config.Config
	settings model.PageSettings
	logger   *zap.Logger
	out      io.Writer
	json     bool
}

// setup resolves configuration from the command's flags and builds the logger.
func setup(cmd *cobra.Command, g *globalFlags) (*runEnv, error) {
	flags := cmd.Flags()
	o := &config.CLIOverrides{ConfigFile: g.configFile}
	if flags.Changed("paper") {
		o.Paper = &g.paper
	}
	if flags.Changed("margin") {
		o.Margin = &g.margin
	}
	if flags.Changed("max-side") {
		o.MaxSideLength = &g.maxSide
	}
	if flags.Changed("dpi") {
		o.DPI = &g.dpi
	}
	if flags.Changed("landscape") {
		o.Landscape = &g.landscape
	}
	if flags.Changed("workers") {
		o.Workers = &g.workers
	}
	if flags.Changed("log-level") {
		o.LogLevel = &g.logLevel
	}

	cfg, err := config.Load(o)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.PageSettings()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration resolved",
		zap.String("paper", cfg.Paper),
		zap.Float64("page_width", settings.Width),
		zap.Float64("page_height", settings.Height),
		zap.Float64("margin", settings.Margin),
		zap.Float64("max_side_length", settings.MaxSideLength),
		zap.Float64("dpi", cfg.DPI),
	)

	return &runEnv{
		cfg:      cfg,
		settings: settings,
		logger:   logger,
		out:      cmd.OutOrStdout(),
		json:     g.jsonOutput,
	}, nil
}

func joinPaperNames() string {
	return strings.Join(model.PaperNames(), ", ")
}
