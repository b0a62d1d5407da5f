// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import "strings"

// Alignment is the rendering alignment of a table column.
type Alignment int

const (
	// AlignDefault leaves alignment to the renderer.
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Marker returns the Markdown separator cell for the alignment.
func (a Alignment) Marker() string {
	switch a {
	case AlignLeft:
		return ":---"
	case AlignCenter:
		return ":---:"
	case AlignRight:
		return "---:"
	default:
		return "---"
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "default"
	}
}

// Table is a detected table run. Align has one entry per header cell.
type Table struct {
	Header []string
	Align  []Alignment
	Rows   [][]string
}

// Render returns the Markdown lines of the table: header, separator, rows.
func (t Table) Render() []string {
	out := make([]string, 0, len(t.Rows)+2)
	out = append(out, formatRow(t.Header))

	markers := make([]string, len(t.Header))
	for i := range markers {
		a := AlignDefault
		if i < len(t.Align) {
			a = t.Align[i]
		}
		markers[i] = a.Marker()
	}
	out = append(out, formatRow(markers))

	for _, row := range t.Rows {
		out = append(out, formatRow(row))
	}
	return out
}

func formatRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// emitTable appends a rendered table surrounded by blank lines.
func emitTable(out []string, t Table) []string {
	out = append(out, "")
	out = append(out, t.Render()...)
	return append(out, "")
}
