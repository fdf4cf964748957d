package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaotau/yaota-version/internal/output"
)

// style wraps text in lipgloss styles when color is enabled.
type style struct {
	enabled bool
}

func (s style) bold(text string) string {
	if !s.enabled {
		return text
	}
	return output.BoldStyle.Render(text)
}

func (s style) cyanBold(text string) string {
	if !s.enabled {
		return text
	}
	return output.BrandStyle.Render(text)
}

func (s style) green(text string) string {
	if !s.enabled {
		return text
	}
	return output.GreenStyle.Render(text)
}

func (s style) yellow(text string) string {
	if !s.enabled {
		return text
	}
	return output.YellowStyle.Render(text)
}

func (s style) dim(text string) string {
	if !s.enabled {
		return text
	}
	return output.DimStyle.Render(text)
}

// renderHelp is the custom help function for the root command.
func renderHelp(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	s := style{enabled: output.SupportsColor(w)}

	fmt.Fprintf(w, "%s %s %s\n", s.cyanBold("yaota-version"), s.dim("-"), s.dim(cmd.Short))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", s.bold("Usage:"))
	fmt.Fprintf(w, "  %s\n", cmd.UseLine())
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		fmt.Fprintf(w, "  %s\n", sub.UseLine())
	}
	fmt.Fprintln(w)

	var subs []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		maxLen := 0
		for _, sub := range subs {
			maxLen = max(maxLen, len(sub.Name()))
		}
		fmt.Fprintf(w, "%s\n", s.bold("Commands:"))
		for _, sub := range subs {
			fmt.Fprintf(w, "  %s   %s\n", s.green(rpad(sub.Name(), maxLen)), s.dim(sub.Short))
		}
		fmt.Fprintln(w)
	}

	if cmd.HasExample() {
		fmt.Fprintf(w, "%s\n", s.bold("Examples:"))
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			// Split on # comment, preserving original alignment.
			if idx := strings.Index(trimmed, "#"); idx >= 0 {
				fmt.Fprintf(w, "  %s%s\n", s.yellow(trimmed[:idx]), s.dim(trimmed[idx:]))
			} else {
				fmt.Fprintf(w, "  %s\n", s.yellow(trimmed))
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", s.bold("Flags:"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = fmt.Sprintf("-%s, ", f.Shorthand)
		}
		flagName := fmt.Sprintf("%s--%s", short, f.Name)
		usage := f.Usage
		if _, required := f.Annotations[cobra.BashCompOneRequiredFlag]; required {
			usage += " (required)"
		}
		fmt.Fprintf(w, "  %s   %s\n", s.green(rpad(flagName, 18)), s.dim(usage))
	})
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", s.dim(`Use "yaota-version <command> --help" for more information about a command.`))
}

// rpad right-pads a string to the given minimum width.
func rpad(s string, minWidth int) string {
	if len(s) >= minWidth {
		return s
	}
	return s + strings.Repeat(" ", minWidth-len(s))
}
