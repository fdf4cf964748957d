package cli

import (
	"log/slog"

	"github.com/yaotau/yaota-version/internal/config"
	"github.com/yaotau/yaota-version/internal/dist"
	"github.com/yaotau/yaota-version/internal/output"
)

// runGenerate writes the manifest described by opts and prints one confirmation line.
func runGenerate(w *output.Writer, opts config.Options) error {
	rec, err := dist.Generate(opts.VersionFile, opts.ImageURL, opts.Out)
	if err != nil {
		return err
	}
	slog.Debug("generated manifest", "out", opts.Out, "version", rec.Version)

	w.Infof("wrote %s (version=%s)", opts.Out, rec.Version)
	return nil
}
