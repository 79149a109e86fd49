package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"

	jsonIndent = "  "
)

// ErrUnknownFormat is returned when --format names an unsupported output format.
var ErrUnknownFormat = errors.New("unknown format (supported: text, table, json)")

// Report is the printable outcome of a count run.
type Report struct {
	Positions int
	Depths    int
	MACS      int
	Legal     *big.Int
	Samples   []bitting.Key
}

// Render writes the report in the requested format.
func (r Report) Render(w io.Writer, format string) error {
	switch format {
	case formatText:
		return r.renderText(w)
	case formatTable:
		return r.renderTable(w)
	case formatJSON:
		return r.renderJSON(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// renderText prints the classic report: a parameter header, the formatted
// legal count, and one line of space-separated cuts per sampled key.
func (r Report) renderText(w io.Writer) error {
	header := color.New(color.Bold)

	_, err := header.Fprintf(w, "n = %d, k = %d, macs = %d\n", r.Positions, r.Depths, r.MACS)
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	_, err = fmt.Fprintf(w, "Legal keys: %s\n", humanize.BigComma(r.Legal))
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	if r.Samples == nil {
		return nil
	}

	_, err = fmt.Fprintln(w, "Samples: ")
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	for _, key := range r.Samples {
		_, err = fmt.Fprintln(w, key.String())
		if err != nil {
			return fmt.Errorf("render text: %w", err)
		}
	}

	return nil
}

// renderTable prints the same data as terminal tables.
func (r Report) renderTable(w io.Writer) error {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.AppendHeader(table.Row{"n", "k", "macs", "Legal keys"})
	summary.AppendRow(table.Row{r.Positions, r.Depths, r.MACS, humanize.BigComma(r.Legal)})
	summary.Render()

	if len(r.Samples) == 0 {
		return nil
	}

	samples := table.NewWriter()
	samples.SetOutputMirror(w)
	samples.AppendHeader(table.Row{"#", "Cuts"})

	for i, key := range r.Samples {
		samples.AppendRow(table.Row{i + 1, key.String()})
	}

	samples.Render()

	return nil
}

// jsonReport is the machine-readable report shape. The count is a decimal
// string: it may exceed every native JSON number range.
type jsonReport struct {
	Positions  int     `json:"n"`
	Depths     int     `json:"k"`
	MACS       int     `json:"macs"`
	LegalKeys  string  `json:"legal_keys"`
	SampleSize int     `json:"sample_size,omitempty"`
	Samples    [][]int `json:"samples,omitempty"`
}

func (r Report) renderJSON(w io.Writer) error {
	out := jsonReport{
		Positions: r.Positions,
		Depths:    r.Depths,
		MACS:      r.MACS,
		LegalKeys: r.Legal.String(),
	}

	if r.Samples != nil {
		out.SampleSize = len(r.Samples)
		out.Samples = make([][]int, len(r.Samples))

		for i, key := range r.Samples {
			cuts := make([]int, len(key))
			for j, d := range key {
				cuts[j] = int(d)
			}

			out.Samples[i] = cuts
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)

	err := enc.Encode(out)
	if err != nil {
		return fmt.Errorf("render json: %w", err)
	}

	return nil
}
