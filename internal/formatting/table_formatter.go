package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter renders document sections as tables and text blocks.
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{options: options}
}

// Format writes every section of doc in order, separated by blank lines.
func (f *TableFormatter) Format(w io.Writer, doc *Document) error {
	for i, s := range doc.Sections {
		if i > 0 && f.options.Format != FormatCSV {
			fmt.Fprintln(w)
		}
		if err := f.section(w, s); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) section(w io.Writer, s *Section) error {
	csv := f.options.Format == FormatCSV
	if s.Title != "" && !f.options.Quiet && !csv {
		fmt.Fprintln(w, f.title(s.Title))
	}
	if s.Text != "" && !csv {
		fmt.Fprintln(w, strings.TrimRight(s.Text, "\n"))
	}
	if s.IsTable() {
		if len(s.Rows) == 0 && s.Empty != "" {
			if !csv {
				fmt.Fprintln(w, f.warn(s.Empty))
			}
		} else if err := f.table(w, s); err != nil {
			return err
		}
	}
	if !f.options.Quiet && !csv {
		for _, n := range s.Notes {
			fmt.Fprintln(w, f.note(n))
		}
	}
	return nil
}

func (f *TableFormatter) table(w io.Writer, s *Section) error {
	wide := f.options.Format == FormatWide
	cols := s.visibleColumns(wide || f.options.Format == FormatMarkdown || f.options.Format == FormatCSV)

	switch {
	case f.options.Format == FormatMarkdown || f.options.Format == FormatCSV:
		t := f.prettyTable(s, cols)
		if f.options.Format == FormatMarkdown {
			fmt.Fprintln(w, t.RenderMarkdown())
		} else {
			fmt.Fprintln(w, t.RenderCSV())
		}
		return nil
	case f.options.Boxed && !f.options.NoHeaders:
		t := f.prettyTable(s, cols)
		t.SetStyle(table.StyleRounded)
		fmt.Fprintln(w, t.Render())
		return nil
	default:
		tw := NewPlainTableWriter(w)
		tw.SetHeaders(pick(s.Headers, cols))
		tw.SetNoHeaders(f.options.NoHeaders)
		for _, row := range s.Rows {
			tw.AppendRow(pick(row, cols))
		}
		return tw.Render()
	}
}

// prettyTable creates a go-pretty table holding the visible columns.
func (f *TableFormatter) prettyTable(s *Section, cols []int) table.Writer {
	t := table.NewWriter()
	if !f.options.NoHeaders {
		header := make(table.Row, len(cols))
		for i, h := range pick(s.Headers, cols) {
			header[i] = h
		}
		t.AppendHeader(header)
	}
	for _, r := range s.Rows {
		row := make(table.Row, len(cols))
		for i, cell := range pick(r, cols) {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	return t
}

func (f *TableFormatter) title(s string) string {
	if f.options.Format == FormatMarkdown {
		return "### " + s + "\n"
	}
	if f.options.Color {
		return text.Colors{text.FgHiCyan, text.Bold}.Sprint(s)
	}
	return s
}

func (f *TableFormatter) warn(s string) string {
	if f.options.Color {
		return text.FgYellow.Sprint(s)
	}
	return s
}

func (f *TableFormatter) note(s string) string {
	if f.options.Color {
		return text.FgHiBlack.Sprint(s)
	}
	return s
}
