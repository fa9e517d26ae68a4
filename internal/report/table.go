package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
)

const (
	bannerWidth     = 80
	columnSeparator = "| "
	cellPadding     = 1
)

// Table is a titled result set ready for printing.
type Table struct {
	Title    string
	Headings []string
	Rows     [][]string
}

// Validate reports rows whose arity differs from the headings.
func (t Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Headings) {
			return eris.Errorf("row %d of %q has %d cells, expected %d", i, t.Title, len(row), len(t.Headings))
		}
	}
	return nil
}

// Printer writes tables to an output stream.
type Printer interface {
	Print(table Table) error
}

// PlainPrinter renders tables as padded text columns joined by "| ".
type PlainPrinter struct {
	out io.Writer
}

var _ Printer = (*PlainPrinter)(nil)

// NewPlainPrinter returns a printer writing to out.
func NewPlainPrinter(out io.Writer) *PlainPrinter {
	return &PlainPrinter{out: out}
}

// Print writes the banner, the centred heading row, a dash rule and the
// left-justified data rows.
func (p *PlainPrinter) Print(table Table) error {
	if err := table.Validate(); err != nil {
		return eris.Wrap(err, "validating table")
	}

	var b strings.Builder
	writeBanner(&b, table.Title)

	widths := columnWidths(table)

	heading := joinCells(table.Headings, widths, center)
	b.WriteString(heading)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(heading)))
	b.WriteByte('\n')

	for _, row := range table.Rows {
		b.WriteString(joinCells(row, widths, leftJustify))
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(p.out, b.String()); err != nil {
		return eris.Wrapf(err, "writing table %q", table.Title)
	}
	return nil
}

// GridPrinter renders tables as bordered grids.
type GridPrinter struct {
	out io.Writer
}

var _ Printer = (*GridPrinter)(nil)

// NewGridPrinter returns a grid printer writing to out.
func NewGridPrinter(out io.Writer) *GridPrinter {
	return &GridPrinter{out: out}
}

// Print writes the banner followed by a bordered table in a single write.
func (p *GridPrinter) Print(table Table) error {
	if err := table.Validate(); err != nil {
		return eris.Wrap(err, "validating table")
	}

	var b strings.Builder
	writeBanner(&b, table.Title)

	// Render cannot report errors, so the grid goes to memory first.
	grid := tablewriter.NewWriter(&b)
	grid.SetHeader(table.Headings)
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)
	grid.AppendBulk(table.Rows)
	grid.Render()

	if _, err := io.WriteString(p.out, b.String()); err != nil {
		return eris.Wrapf(err, "writing table %q", table.Title)
	}
	return nil
}

func writeBanner(b *strings.Builder, title string) {
	b.WriteString(" \n")
	b.WriteString(strings.Repeat("=", bannerWidth))
	b.WriteByte('\n')
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(" \n")
}

// columnWidths is the longest heading or cell of each column plus padding.
func columnWidths(table Table) []int {
	widths := make([]int, len(table.Headings))
	for i, heading := range table.Headings {
		widths[i] = max(cellPadding, utf8.RuneCountInString(heading)+cellPadding)
	}

	for _, row := range table.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell)+cellPadding)
		}
	}

	return widths
}

func joinCells(cells []string, widths []int, align func(string, int) string) string {
	aligned := make([]string, len(cells))
	for i, cell := range cells {
		aligned[i] = align(cell, widths[i])
	}
	return strings.Join(aligned, columnSeparator)
}

func leftJustify(s string, width int) string {
	margin := width - utf8.RuneCountInString(s)
	if margin <= 0 {
		return s
	}
	return s + strings.Repeat(" ", margin)
}

// center splits an odd margin towards the left only when width is odd too.
func center(s string, width int) string {
	margin := width - utf8.RuneCountInString(s)
	if margin <= 0 {
		return s
	}

	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}
