package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainTableWriter writes kubectl-style tables: upper-case headers, columns
// separated by spaces, no box drawing. The output survives grep, awk and cut.
type PlainTableWriter struct {
	headers      []string
	rows         [][]string
	columnWidths []int
	minPadding   int
	showHeaders  bool
	output       io.Writer
}

// NewPlainTableWriter creates a plain table writer. Headers are shown until
// SetNoHeaders(true) is called.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		minPadding:  3,
		showHeaders: true,
		output:      output,
	}
}

// SetHeaders sets the column headers. Headers are printed upper case.
func (w *PlainTableWriter) SetHeaders(headers []string) {
	w.headers = make([]string, len(headers))
	w.columnWidths = make([]int, len(headers))
	for i, h := range headers {
		upper := strings.ToUpper(h)
		w.headers[i] = upper
		w.columnWidths[i] = text.RuneWidthWithoutEscSequences(upper)
	}
}

// SetNoHeaders controls whether to suppress the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row, padded or cut to the header count.
func (w *PlainTableWriter) AppendRow(row []string) {
	normalized := make([]string, len(w.headers))
	for i := range w.headers {
		if i >= len(row) {
			continue
		}
		normalized[i] = row[i]
		if width := text.RuneWidthWithoutEscSequences(row[i]); width > w.columnWidths[i] {
			w.columnWidths[i] = width
		}
	}
	w.rows = append(w.rows, normalized)
}

// Render writes the table.
func (w *PlainTableWriter) Render() error {
	if len(w.headers) == 0 || (len(w.rows) == 0 && !w.showHeaders) {
		return nil
	}
	if w.showHeaders {
		if err := w.printRow(w.headers); err != nil {
			return err
		}
	}
	for _, row := range w.rows {
		if err := w.printRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *PlainTableWriter) printRow(row []string) error {
	var sb strings.Builder
	for i, cell := range row {
		sb.WriteString(cell)
		if i < len(row)-1 {
			pad := w.columnWidths[i] + w.minPadding - text.RuneWidthWithoutEscSequences(cell)
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	_, err := fmt.Fprintln(w.output, strings.TrimRight(sb.String(), " "))
	return err
}
