// Binary record_formatter fills {{field}} placeholders in a
// template from record files and explicit variables.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/byte4ever/recordfmt/formatter"
	"github.com/byte4ever/recordfmt/record"
	"github.com/byte4ever/recordfmt/templating"
)

const envPrefix = "RECORD_FORMATTER_"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "record_formatter",
		Usage: "fill template placeholders from a record",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "record",
				Usage:   "record file path, merged in order (repeatable)",
				Sources: cli.EnvVars(envPrefix + "RECORD"),
			},
			&cli.StringFlag{
				Name:    "record-format",
				Usage:   "record decoder: json, yaml or stamp (default: from extension)",
				Sources: cli.EnvVars(envPrefix + "RECORD_FORMAT"),
			},
			&cli.StringSliceFlag{
				Name:  "variable",
				Usage: "field in NAME=VALUE format (repeatable)",
			},
			&cli.StringFlag{
				Name:    "template",
				Usage:   "input template file path (stdin if empty)",
				Sources: cli.EnvVars(envPrefix + "TEMPLATE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "output file path (stdout if empty)",
				Sources: cli.EnvVars(envPrefix + "OUTPUT"),
			},
			&cli.BoolFlag{
				Name:  "executable",
				Usage: "set executable bit on output file",
			},
			&cli.StringFlag{
				Name:    "start-tag",
				Value:   "{{",
				Usage:   "start tag for template placeholders",
				Sources: cli.EnvVars(envPrefix + "START_TAG"),
			},
			&cli.StringFlag{
				Name:    "end-tag",
				Value:   "}}",
				Usage:   "end tag for template placeholders",
				Sources: cli.EnvVars(envPrefix + "END_TAG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug messages",
			},
		},
		Action: run,

		DisableSliceFlagSeparator: true,
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	const errCtx = "record_formatter"

	if cmd.Bool("verbose") {
		slog.SetDefault(slog.New(slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug},
		)))
	}

	switch kind := cmd.String("record-format"); kind {
	case "", record.KindJSON, record.KindYAML, record.KindStamp:
	default:
		return fmt.Errorf(
			"%s: --record-format must be json, yaml or stamp, got %q",
			errCtx, kind,
		)
	}

	en := templating.Engine{
		StartTag:     cmd.String("start-tag"),
		EndTag:       cmd.String("end-tag"),
		RecordFiles:  cmd.StringSlice("record"),
		RecordFormat: cmd.String("record-format"),
	}

	if err := en.Expand(
		cmd.String("template"),
		cmd.String("output"),
		cmd.StringSlice("variable"),
		cmd.Bool("executable"),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := newCommand().Run(
		context.Background(), os.Args,
	); err != nil {
		for _, field := range formatter.MissingFields(err) {
			slog.Error("missing placeholder", "field", field)
		}

		slog.Error(err.Error())
		os.Exit(1)
	}
}
