package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/PhotoPack/internal/importer"
	"github.com/piwi3910/PhotoPack/internal/model"
)

// loadItems reads photos from a manifest when one is given, otherwise from
// every supported image in dir. Per-file problems are logged and skipped;
// they only fail the run when nothing could be read at all.
func loadItems(env *runEnv, dir, manifest string) ([]model.Item, error) {
	var result importer.ImportResult
	if manifest != "" {
		result = importer.ImportManifest(manifest, env.cfg.DPI)
	} else {
		result = importer.ScanDirectory(dir, env.cfg.DPI)
	}

	for _, w := range result.Warnings {
		env.logger.Warn("import warning", zap.String("detail", w))
	}
	for _, e := range result.Errors {
		env.logger.Error("import error", zap.String("detail", e))
	}

	if len(result.Items) == 0 && len(result.Errors) > 0 {
		return nil, fmt.Errorf("no photos could be read: %w", errors.New(result.Errors[0]))
	}

	env.logger.Info("photos loaded", zap.Int("count", len(result.Items)), zap.Int("skipped", len(result.Errors)))
	return result.Items, nil
}
