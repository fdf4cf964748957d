package config

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names shared by the CLI and the decoder.
const (
	FlagVersionFile = "version-file"
	FlagImageURL    = "image-url"
	FlagOut         = "out"
)

// ErrMissingOption is returned when a required option is empty.
var ErrMissingOption = errors.New("missing required option")

// Options are the inputs of one manifest generation.
type Options struct {
	VersionFile string `mapstructure:"version-file"`
	ImageURL    string `mapstructure:"image-url"`
	Out         string `mapstructure:"out"`
}

// Validate checks that both paths are set. ImageURL may be any value, including empty.
func (o *Options) Validate() error {
	if o.VersionFile == "" {
		return fmt.Errorf("%w: --%s", ErrMissingOption, FlagVersionFile)
	}
	if o.Out == "" {
		return fmt.Errorf("%w: --%s", ErrMissingOption, FlagOut)
	}
	return nil
}

// Load decodes Options from a parsed flag set. Only flags are consulted:
// no config file or environment variable feeds these values.
func Load(fs *pflag.FlagSet) (Options, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Options{}, fmt.Errorf("binding flags: %w", err)
	}

	var opts Options
	decoderOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToBasicTypeHookFunc(),
	))
	if err := v.Unmarshal(&opts, decoderOpt); err != nil {
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Register adds the manifest flags to fs.
func Register(fs *pflag.FlagSet) {
	fs.String(FlagVersionFile, "", "text file whose trimmed contents become the version")
	fs.String(FlagImageURL, "", "image URL written verbatim into the manifest")
	fs.String(FlagOut, "", "path of the JSON manifest to write")
}
