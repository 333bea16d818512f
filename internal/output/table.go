package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Tutortoise/example-decoder/models"
	"github.com/dustin/go-humanize"
)

// TableFormatter outputs data in human-readable table format.
type TableFormatter struct{}

// WriteResults writes one row per record file followed by a totals line.
func (f *TableFormatter) WriteResults(w io.Writer, results []DecodeResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tSOURCE_ID\tSHAPE\tOBJECTS\tCROWD\tMASKS\tSTATUS")

	var total int64
	failed := 0
	for _, r := range results {
		total += r.Size
		if r.Example == nil {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\t-\t%s\n", r.File, orDash(r.SizeHuman), status(r))
			continue
		}
		ex := r.Example
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\tok\n",
			r.File,
			r.SizeHuman,
			orDash(ex.SourceID),
			formatShape(ex.ImageShape),
			humanize.Comma(int64(ex.NumObjects)),
			countTrue(ex.IsCrowd),
			formatMasks(ex),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d (%d failed), %s read\n", len(results), failed, humanize.IBytes(uint64(total)))
	return nil
}

// WriteSchema writes the feature schema as a table.
func (f *TableFormatter) WriteSchema(w io.Writer, fields []models.SchemaField) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tTYPE\tDEFAULT")

	for _, sf := range fields {
		def := "-"
		switch {
		case sf.Required:
			def = "(required)"
		case sf.Default != nil:
			def = fmt.Sprintf("%q", fmt.Sprint(sf.Default))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sf.Name, sf.Kind, sf.Type, def)
	}
	return tw.Flush()
}

func status(r DecodeResult) string {
	if r.Kind == "" {
		return "error: " + r.Error
	}
	return r.Kind + ": " + r.Error
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatShape(shape [3]int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

func formatMasks(ex *models.DecodeSummary) string {
	if ex.InstanceMasksShape == nil {
		return "-"
	}
	return formatShape(*ex.InstanceMasksShape)
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
