package record

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/valyala/fasttemplate"
)

// Record kinds accepted by Load.
const (
	KindJSON  = "json"
	KindYAML  = "yaml"
	KindStamp = "stamp"
)

var errNotObject = errors.New("document is not an object")

// Load reads the record at path. kind selects the decoder;
// when empty it is guessed from the file extension, and
// files that are neither .json nor .yaml/.yml are read as
// stamp files.
func Load(path string, kind string) (map[string]any, error) {
	const errCtx = "loading record"

	if kind == "" {
		kind = KindOf(path)
	}

	if kind == KindStamp {
		rec, err := LoadStamps([]string{path})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return rec, nil
	}

	fi, err := os.Open(path) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer fi.Close() //nolint:errcheck // read-only file

	var rec map[string]any

	switch kind {
	case KindJSON:
		rec, err = LoadJSON(fi)
	case KindYAML:
		rec, err = LoadYAML(fi)
	default:
		err = fmt.Errorf("unknown record kind %q", kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return rec, nil
}

// KindOf guesses the record kind from a file extension.
func KindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindJSON
	case ".yaml", ".yml":
		return KindYAML
	default:
		return KindStamp
	}
}

// LoadJSON decodes a single JSON object from in. Numbers
// keep their literal text.
func LoadJSON(in io.Reader) (map[string]any, error) {
	const errCtx = "decoding json"

	dec := json.NewDecoder(in)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf(
			"%s: %w: got %T", errCtx, errNotObject, doc,
		)
	}

	return obj, nil
}

// LoadYAML returns the first non-empty document of a YAML
// stream, which must be a mapping.
func LoadYAML(in io.Reader) (map[string]any, error) {
	const errCtx = "decoding yaml"

	decoder := yaml.NewDecoder(in)

	for {
		var doc any

		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf(
				"%s: %w: empty stream", errCtx, errNotObject,
			)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if doc == nil {
			continue
		}

		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf(
				"%s: %w: got %T", errCtx, errNotObject, doc,
			)
		}

		return obj, nil
	}
}

// LoadStamps reads workspace status files and merges them
// into a single record. Each line is "KEY VALUE" with the
// first space as delimiter; later files override earlier
// ones. Lines without a space are skipped.
func LoadStamps(infoFiles []string) (map[string]any, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]any)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(
				strings.TrimSuffix(line, "\r"), " ", 2,
			)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// ParseVariables stores each NAME=VALUE pair of vars into
// rec, overriding existing fields. A value may reference
// string fields already in rec with single braces, as in
// AUTHOR={BUILD_USER}; unknown references are kept.
func ParseVariables(vars []string, rec map[string]any) error {
	const errCtx = "parsing variables"

	base := make(map[string]any, len(rec))
	Merge(base, rec)

	for _, vr := range vars {
		parts := strings.SplitN(vr, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return fmt.Errorf(
				"%s: variable must be NAME=value, got %s",
				errCtx, vr,
			)
		}

		rec[parts[0]] = expandRefs(parts[1], base)
	}

	return nil
}

// expandRefs substitutes {KEY} in val with the string
// fields of rec.
func expandRefs(val string, rec map[string]any) string {
	return fasttemplate.ExecuteFuncString(
		val, "{", "}",
		func(w io.Writer, tag string) (int, error) {
			if str, ok := rec[tag].(string); ok {
				return io.WriteString(w, str)
			}

			return io.WriteString(w, "{"+tag+"}")
		},
	)
}

// Merge copies every field of src into dst.
func Merge(dst map[string]any, src map[string]any) {
	for key, val := range src {
		dst[key] = val
	}
}
