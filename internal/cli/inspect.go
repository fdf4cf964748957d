package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaotau/yaota-version/internal/dist"
	"github.com/yaotau/yaota-version/internal/output"
)

func newInspectCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Show the version and image URL a manifest advertises",
		Long: `Reads a version.json manifest and prints the fields a yaotau device uses.
Fails if "version" or "image_url" is missing or is not a string. An empty
version is reported as a warning, matching what devices do.

Devices keep at most 31 bytes of the version and 255 bytes of the image URL,
and compare only the leading major.minor.patch numbers of the version. The
"compares as" line shows that triple; longer fields are reported as warnings.`,
		Example: `  yaota-version inspect build/version.json
  yaota-version inspect --json build/version.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(f.writer(cmd), args[0])
		},
	}

	cmd.Flags().BoolVarP(&f.json, "json", "j", false, "output in JSON format")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "print errors only")
	return cmd
}

// runInspect prints the fields of the manifest at path.
func runInspect(w *output.Writer, path string) error {
	rec, err := dist.ReadRecord(path)
	if err != nil {
		return err
	}

	if rec.Version == "" {
		w.Warn("manifest has an empty version string", "devices will still compare against it")
	}
	dev := rec.Device()
	if dev.VersionTruncated {
		w.Warn(fmt.Sprintf("version is %d bytes; devices keep only the first %d (%q)",
			len(rec.Version), dist.DeviceVersionMax, dev.Version),
			"shorten the version string")
	}
	if dev.ImageURLTruncated {
		w.Warn(fmt.Sprintf("image_url is %d bytes; devices keep only the first %d and the download will fail",
			len(rec.ImageURL), dist.DeviceImageURLMax),
			"use an image URL of at most 255 bytes")
	}

	w.Infof("version: %s", rec.Version)
	w.Infof("image_url: %s", rec.ImageURL)
	w.Infof("compares as: %s", dev.Compared)
	return nil
}
