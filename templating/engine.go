package templating

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/byte4ever/recordfmt/formatter"
	"github.com/byte4ever/recordfmt/record"
)

// Engine expands templates from record files and explicit
// variables.
type Engine struct {
	StartTag     string
	EndTag       string
	RecordFiles  []string
	RecordFormat string
}

// Expand reads a template, fills it from the record, and
// writes the result. If tplPath is empty it reads stdin;
// if outPath is empty it writes to stdout. If executable
// is true the output file receives mode 0777 instead of
// 0666.
//
// Processing order:
//  1. Load each record file and merge them in order.
//  2. Apply variables NAME=VALUE on top of the record,
//     expanding {KEY} references to loaded fields.
//  3. Read the template and format it.
//  4. Open the output and write the result.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	vars []string,
	executable bool,
) (retErr error) {
	const errCtx = "expanding template"

	rec, err := en.LoadRecord(vars)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var result bytes.Buffer

	if err := en.newFormatter().FormatTo(
		&result, rec, string(tplContent),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, closer, err := en.openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer func() {
			if err := closer(); err != nil && retErr == nil {
				retErr = fmt.Errorf("%s: %w", errCtx, err)
			}
		}()
	}

	if _, err := result.WriteTo(out); err != nil {
		return fmt.Errorf("%s: writing output: %w", errCtx, err)
	}

	slog.Debug(
		"template expanded",
		"template", tplPath,
		"output", outPath,
		"fields", len(rec),
	)

	return nil
}

// LoadRecord loads and merges the configured record files,
// then applies vars on top.
func (en *Engine) LoadRecord(
	vars []string,
) (map[string]any, error) {
	const errCtx = "loading record"

	rec := make(map[string]any)

	for _, rf := range en.RecordFiles {
		loaded, err := record.Load(rf, en.RecordFormat)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		slog.Debug("record loaded", "file", rf, "fields", len(loaded))

		record.Merge(rec, loaded)
	}

	if err := record.ParseVariables(vars, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return rec, nil
}

func (en *Engine) newFormatter() formatter.Formatter {
	return formatter.Formatter{
		Delimiters: formatter.Delimiters{
			Left:  en.StartTag,
			Right: en.EndTag,
		},
	}
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer finalizes the file and reports its error
// (nil for stdout).
func (en *Engine) openOutput(
	outPath string,
	executable bool,
) (io.Writer, func() error, error) {
	const errCtx = "opening output"

	if outPath == "" {
		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() error {
		if err := fi.Close(); err != nil {
			return fmt.Errorf("closing output: %w", err)
		}

		return nil
	}, nil
}
