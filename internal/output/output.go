package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const prefix = "yaotau: "

// Mode controls output format.
type Mode int

const (
	ModeText Mode = iota
	ModeJSON
	ModeQuiet
)

// Writer handles all user-facing output.
type Writer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
	now  func() time.Time // injectable clock for testing
}

// NewWithWriters creates a Writer with explicit output targets.
func NewWithWriters(out, errOut io.Writer, mode Mode) *Writer {
	return &Writer{
		out:  out,
		err:  errOut,
		mode: mode,
		now:  time.Now,
	}
}

// SetClock overrides the time source (for testing).
func (w *Writer) SetClock(fn func() time.Time) {
	w.now = fn
}

// Info prints a prefixed informational message to stdout.
func (w *Writer) Info(msg string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("info", msg, "")
	case ModeQuiet:
		// suppress
	default:
		fmt.Fprintf(w.out, "%s%s\n", prefix, msg)
	}
}

// Infof prints a formatted informational message.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning with an optional fix suggestion. Quiet mode suppresses it.
func (w *Writer) Warn(msg, fix string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("warning", msg, fix)
	case ModeQuiet:
		// suppress
	default:
		fmt.Fprintf(w.err, "%swarning: %s\n", prefix, msg)
		if fix != "" {
			fmt.Fprintf(w.err, "%s%s\n", prefix, fix)
		}
	}
}

// Error prints an error message with an optional fix suggestion.
// Errors are shown in every mode.
func (w *Writer) Error(msg, fix string) {
	switch w.mode {
	case ModeJSON:
		w.writeJSON("error", msg, fix)
	default:
		fmt.Fprintf(w.err, "%serror: %s\n", prefix, msg)
		if fix != "" {
			fmt.Fprintf(w.err, "%s%s\n", prefix, fix)
		}
	}
}

// Usage prints command usage text to stderr, unprefixed. JSON and quiet modes drop it.
func (w *Writer) Usage(text string) {
	if w.mode != ModeText || text == "" {
		return
	}
	fmt.Fprint(w.err, text)
}

func (w *Writer) writeJSON(msgType, msg, fix string) {
	msg = strings.TrimRight(msg, "\n")
	obj := map[string]string{
		"type":      msgType,
		"message":   msg,
		"timestamp": w.now().UTC().Format(time.RFC3339),
	}
	if fix != "" {
		obj["fix"] = fix
	}
	data, err := json.Marshal(obj)
	if err != nil {
		slog.Error("failed to marshal JSON output", "error", err)
		return
	}
	fmt.Fprintln(w.out, string(data))
}

// SetupSlog configures slog to write to w at the given verbosity level.
// When verbose is true, debug-level messages are shown.
func SetupSlog(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
