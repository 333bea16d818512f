package main

import (
	"fmt"
	"os"

	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/Tutortoise/example-decoder/internal/output"
	"github.com/urfave/cli/v2"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "table",
		Usage:   "Output format: table, json",
	}
}

func decoderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "include-mask",
			Usage: "Decode instance masks (image/object/mask)",
		},
		&cli.BoolFlag{
			Name:  "regenerate-source-id",
			Usage: "Always derive the source id from the image bytes",
		},
		&cli.BoolFlag{
			Name:  "activate-pseudo-score",
			Usage: "Read pseudo-label scores (image/object/pseudo_score)",
		},
	}
}

func decoderConfig(c *cli.Context) decoder.Config {
	return decoder.Config{
		IncludeMask:         c.Bool("include-mask"),
		RegenerateSourceID:  c.Bool("regenerate-source-id"),
		ActivatePseudoScore: c.Bool("activate-pseudo-score"),
	}
}

func getFormatter(c *cli.Context) (output.Formatter, error) {
	format := c.String("format")
	if format != "table" && format != "json" {
		return nil, fmt.Errorf("invalid format %q: must be 'table' or 'json'", format)
	}
	return output.NewFormatter(output.Format(format)), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "exampletool",
		Usage:   "Inspect and build annotated-image tf.Example records",
		Version: "0.1.0",
		Commands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			schemaCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode serialized records and print their annotations",
		ArgsUsage: "<record-file>...",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"j"},
				Value:   4,
				Usage:   "Number of records decoded at once",
			},
			formatFlag(),
		}, decoderFlags()...),
		Action: decodeAction,
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "Build a serialized record from an image and an annotations file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "Path to the encoded image",
			},
			&cli.StringFlag{
				Name:    "annotations",
				Aliases: []string{"a"},
				Usage:   "Path to a JSON annotations file",
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "Where to write the record",
			},
			&cli.BoolFlag{
				Name:  "declare-size",
				Usage: "Store the decoded image height and width in the record",
			},
		},
		Action: encodeAction,
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:   "schema",
		Usage:  "Print the features read for the given decoder flags",
		Flags:  append([]cli.Flag{formatFlag()}, decoderFlags()...),
		Action: schemaAction,
	}
}
