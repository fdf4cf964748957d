package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/yaotau/yaota-version/internal/config"
	"github.com/yaotau/yaota-version/internal/dist"
)

// usageError wraps flag parsing failures reported by cobra.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// isUsageError reports whether err comes from bad or missing arguments
// rather than from file I/O.
func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) || errors.Is(err, config.ErrMissingOption) {
		return true
	}
	// cobra returns plain errors for required flags and positional args.
	msg := err.Error()
	for _, s := range []string{"required flag(s)", "unknown command", "arg(s), received"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// classifiedError is an actionable message for a known failure.
type classifiedError struct {
	Message string
	Fix     string
}

// classifyError maps known failures to a message and fix suggestion.
// Returns nil for errors with no specific advice.
func classifyError(err error) *classifiedError {
	msg := err.Error()
	switch {
	case isUsageError(err):
		return &classifiedError{Message: msg}
	case errors.Is(err, dist.ErrReadVersion) && errors.Is(err, os.ErrNotExist):
		return &classifiedError{Message: msg, Fix: "check the --version-file path"}
	case errors.Is(err, dist.ErrReadVersion) && errors.Is(err, dist.ErrNotText):
		return &classifiedError{Message: msg, Fix: "the version file must contain UTF-8 text"}
	case errors.Is(err, dist.ErrWriteManifest) && errors.Is(err, os.ErrNotExist):
		return &classifiedError{Message: msg, Fix: "the directory for --out must already exist"}
	case errors.Is(err, os.ErrPermission):
		return &classifiedError{Message: msg, Fix: "check file permissions"}
	case errors.Is(err, dist.ErrInvalidManifest):
		return &classifiedError{Message: msg, Fix: `a manifest needs string "version" and "image_url" keys`}
	}
	return nil
}
