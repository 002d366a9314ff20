package formatting

// Document is one command result ready for output.
type Document struct {
	// Data is serialized as is for json and yaml output.
	Data interface{}
	// Sections are rendered in order for every other format.
	Sections []*Section
}

// Section is a titled table, a preformatted text block, or both. Notes are
// printed after the body.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
	// WideColumns holds indexes of columns shown only in wide output.
	WideColumns []int
	// Text is printed verbatim, for trees and diagrams.
	Text  string
	Notes []string
	// Empty is printed instead of an empty table.
	Empty string
}

// NewDocument starts a document for data.
func NewDocument(data interface{}) *Document {
	return &Document{Data: data}
}

// Table appends a table section and returns it for filling.
func (d *Document) Table(title string, headers ...string) *Section {
	s := &Section{Title: title, Headers: headers}
	d.Sections = append(d.Sections, s)
	return s
}

// Text appends a text section.
func (d *Document) Text(title, body string) *Section {
	s := &Section{Title: title, Text: body}
	d.Sections = append(d.Sections, s)
	return s
}

// AddRow appends a row. Missing cells are left empty.
func (s *Section) AddRow(cells ...string) *Section {
	s.Rows = append(s.Rows, cells)
	return s
}

// Wide marks columns as wide-only.
func (s *Section) Wide(columns ...int) *Section {
	s.WideColumns = append(s.WideColumns, columns...)
	return s
}

// Note appends a footer note.
func (s *Section) Note(note string) *Section {
	s.Notes = append(s.Notes, note)
	return s
}

// WhenEmpty sets the message printed when the table has no rows.
func (s *Section) WhenEmpty(msg string) *Section {
	s.Empty = msg
	return s
}

// IsTable reports whether the section carries a table.
func (s *Section) IsTable() bool {
	return len(s.Headers) > 0
}

// visibleColumns returns the column indexes to render.
func (s *Section) visibleColumns(wide bool) []int {
	hidden := make(map[int]bool, len(s.WideColumns))
	if !wide {
		for _, c := range s.WideColumns {
			hidden[c] = true
		}
	}
	cols := make([]int, 0, len(s.Headers))
	for i := range s.Headers {
		if !hidden[i] {
			cols = append(cols, i)
		}
	}
	return cols
}

func pick(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if c < len(row) {
			out[i] = row[c]
		}
	}
	return out
}
