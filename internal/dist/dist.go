// Package dist builds and reads the version manifest served to yaotau OTA clients.
package dist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNotText is returned when a version file is not valid UTF-8.
	ErrNotText = errors.New("version file is not valid UTF-8 text")

	// ErrReadVersion marks failures reading the version file in Generate.
	ErrReadVersion = errors.New("reading version file")

	// ErrWriteManifest marks failures writing the output in Generate.
	ErrWriteManifest = errors.New("writing")

	// ErrInvalidManifest is returned when a manifest lacks a string "version" or "image_url".
	ErrInvalidManifest = errors.New("manifest missing expected keys or not strings")
)

// Record is the manifest written to version.json. Field order is the wire order.
type Record struct {
	Version  string `json:"version"`
	ImageURL string `json:"image_url"`
}

// NewRecord returns a Record. imageURL is kept verbatim.
func NewRecord(version, imageURL string) Record {
	return Record{Version: version, ImageURL: imageURL}
}

// ReadVersionFile reads the version from the file at path.
// Returns the trimmed version string or an error.
func ReadVersionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return strings.TrimFunc(string(data), isSpace), nil
}

// isSpace matches the whitespace stripped by Python's str.strip, which also
// treats the ASCII separators 0x1c-0x1f as space.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Encode writes r as two-space indented JSON followed by a newline.
func (r Record) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Marshal returns the encoded form of r.
func (r Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecord overwrites path with the encoded record.
// The parent directory must already exist.
func WriteRecord(path string, r Record) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Debug("wrote manifest", "path", path, "bytes", len(data))
	return nil
}

// Generate reads versionFile, builds the record and writes it to out.
// The output is not touched unless the version file was read successfully.
func Generate(versionFile, imageURL, out string) (Record, error) {
	slog.Debug("reading version file", "path", versionFile)
	version, err := ReadVersionFile(versionFile)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrReadVersion, err)
	}

	rec := NewRecord(version, imageURL)
	if err := WriteRecord(out, rec); err != nil {
		return Record{}, fmt.Errorf("%w %s: %w", ErrWriteManifest, out, err)
	}
	return rec, nil
}

// DecodeRecord parses a manifest. Both keys must be present and be JSON strings;
// an empty version is allowed. When a key repeats, the first value wins, as it
// does on the device.
func DecodeRecord(r io.Reader) (Record, error) {
	raw, err := decodeFirstKeys(json.NewDecoder(r))
	if err != nil {
		return Record{}, err
	}

	var rec Record
	fields := []struct {
		key string
		dst *string
	}{
		{"version", &rec.Version},
		{"image_url", &rec.ImageURL},
	}
	for _, f := range fields {
		val, ok := raw[f.key]
		if !ok {
			return Record{}, fmt.Errorf("%w: %q not found", ErrInvalidManifest, f.key)
		}
		val = bytes.TrimSpace(val)
		if len(val) == 0 || val[0] != '"' {
			return Record{}, fmt.Errorf("%w: %q is not a string", ErrInvalidManifest, f.key)
		}
		if err := json.Unmarshal(val, f.dst); err != nil {
			return Record{}, fmt.Errorf("parsing %q: %w", f.key, err)
		}
	}
	return rec, nil
}

// decodeFirstKeys reads one JSON object, keeping the first value of each key.
func decodeFirstKeys(dec *json.Decoder) (map[string]json.RawMessage, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidManifest)
	}

	raw := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing manifest: unexpected %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
		if _, seen := raw[key]; !seen {
			raw[key] = val
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return raw, nil
}

// ReadRecord reads and parses the manifest at path.
func ReadRecord(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()
	return DecodeRecord(f)
}
