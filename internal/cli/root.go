package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaotau/yaota-version/internal/config"
	"github.com/yaotau/yaota-version/internal/output"
)

// flags holds per-invocation flag state (no package globals).
// json and quiet are only registered on inspect; generate always prints its
// confirmation line.
type flags struct {
	json    bool
	quiet   bool
	verbose bool
}

func (f *flags) outputMode() output.Mode {
	if f.json {
		return output.ModeJSON
	}
	if f.quiet {
		return output.ModeQuiet
	}
	return output.ModeText
}

// writer returns an output.Writer bound to the command's stdout and stderr.
func (f *flags) writer(cmd *cobra.Command) *output.Writer {
	return output.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), f.outputMode())
}

// Execute runs the CLI with the given version and args. Returns exit code.
func Execute(version string, args []string) int {
	return execute(version, args, os.Stdout, os.Stderr)
}

func execute(version string, args []string, stdout, stderr io.Writer) int {
	f := &flags{}
	root := newRootCmdWithFlags(version, f)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	// Output flags parsed before a failure still apply.
	w := output.NewWithWriters(stdout, stderr, f.outputMode())
	if ce := classifyError(err); ce != nil {
		w.Error(ce.Message, ce.Fix)
	} else {
		w.Error(err.Error(), "")
	}
	if isUsageError(err) {
		w.Usage(cmd.UsageString())
	}
	return 1
}

func newRootCmd(version string) *cobra.Command {
	return newRootCmdWithFlags(version, &flags{})
}

func newRootCmdWithFlags(version string, f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:   "yaota-version --version-file <path> --image-url <url> --out <path>",
		Short: "Write the version.json manifest polled by yaotau OTA clients",
		Long: `yaota-version reads a firmware version from a text file and writes the
version.json manifest that yaotau devices poll to decide whether to update.
The manifest holds the trimmed version and the image URL, verbatim.`,
		Example: `  yaota-version --version-file version.txt --image-url https://cdn.example.com/fw/app.bin --out build/version.json
  yaota-version inspect build/version.json   # show what devices will see`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			output.SetupSlog(cmd.ErrOrStderr(), f.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runGenerate(output.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText), opts)
		},
	}

	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	config.Register(root.Flags())
	for _, name := range []string{config.FlagVersionFile, config.FlagImageURL, config.FlagOut} {
		_ = root.MarkFlagRequired(name)
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newInspectCmd(f))

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			defaultHelp(cmd, args)
			return
		}
		renderHelp(cmd, args)
	})

	return root
}
