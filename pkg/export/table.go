package export

import "fmt"

// Format selects a renderer.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf".
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatCSV, FormatPDF:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

// Table is a titled grid of text cells. Every row has one cell per column.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// NewTable starts a table with the given columns.
func NewTable(title string, columns ...string) *Table {
	return &Table{Title: title, Columns: columns}
}

// AddRow appends a row, padding or truncating it to the column count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Renderer turns a table into file contents.
type Renderer interface {
	Render(t *Table) ([]byte, error)
}

// RendererFor returns the renderer of a format.
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return NewCSVRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
