package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	BoldStyle   = lipgloss.NewStyle().Bold(true)
	DimStyle    = lipgloss.NewStyle().Faint(true)
	CyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	GreenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	YellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	BrandStyle  = CyanStyle.Bold(true)
)

// SupportsColor reports whether w is a terminal that should receive styled output.
// NO_COLOR and TERM=dumb disable color.
func SupportsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
