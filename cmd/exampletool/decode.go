package main

import (
	"fmt"
	"os"

	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/Tutortoise/example-decoder/internal/output"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func decodeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one record file is required")
	}
	formatter, err := getFormatter(c)
	if err != nil {
		return err
	}
	d, err := decoder.New(decoderConfig(c))
	if err != nil {
		return err
	}

	results := decodeFiles(d, c.Args().Slice(), c.Int("concurrency"))
	if err := formatter.WriteResults(c.App.Writer, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed to decode", failed, len(results))
	}
	return nil
}

// decodeFiles decodes every file independently. A failing file is reported in
// its result and does not stop the others.
func decodeFiles(d *decoder.Decoder, paths []string, concurrency int) []output.DecodeResult {
	results := make([]output.DecodeResult, len(paths))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			results[i] = decodeFile(d, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func decodeFile(d *decoder.Decoder, path string) output.DecodeResult {
	res := output.DecodeResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Size = int64(len(data))
	res.SizeHuman = humanize.IBytes(uint64(len(data)))

	ex, err := d.Decode(data)
	if err != nil {
		res.Kind = string(decoder.KindOf(err))
		res.Error = err.Error()
		return res
	}
	summary := ex.Summary()
	res.Example = &summary
	return res
}
