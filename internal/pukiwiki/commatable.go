// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import "strings"

// isCommaRow reports whether line is a row of a comma-separated table: it
// starts with a comma, or has a comma after some leading text and at least
// two commas overall. Pipe-prefixed lines belong to the pipe pass.
func isCommaRow(line string) bool {
	if strings.HasPrefix(line, "|") {
		return false
	}
	if strings.HasPrefix(line, ",") {
		return true
	}
	return strings.IndexByte(line, ',') > 0 && strings.Count(line, ",") >= 2
}

// splitCommaRow splits on commas and drops a leading empty cell, which
// PukiWiki writes as the row marker.
func splitCommaRow(line string) []string {
	cells := strings.Split(line, ",")
	if cells[0] == "" {
		cells = cells[1:]
	}
	return cells
}

// parseCommaTable builds a table from a run. The first line is the header;
// every data row is padded or truncated to the header width.
func parseCommaTable(run []string) Table {
	header := splitCommaRow(run[0])
	t := Table{
		Header: header,
		Align:  make([]Alignment, len(header)),
	}
	for _, line := range run[1:] {
		cells := splitCommaRow(line)
		row := make([]string, len(header))
		copy(row, cells)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ConvertCommaTables replaces runs of comma-separated rows with Markdown
// tables. Lines inside fenced code blocks are never rows.
func ConvertCommaTables(text string) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines))

	code := codeLines(lines)
	state := scanning
	var run []string

	for i, line := range lines {
		if !code[i] && isCommaRow(line) {
			state = inRun
			run = append(run, line)
			continue
		}
		if state == inRun {
			out = emitTable(out, parseCommaTable(run))
			run = nil
			state = scanning
		}
		out = append(out, line)
	}
	if state == inRun {
		out = emitTable(out, parseCommaTable(run))
	}
	return joinLines(out)
}
