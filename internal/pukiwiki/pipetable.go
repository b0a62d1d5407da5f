// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import (
	"regexp"
	"strings"
)

// alignTokens are checked in order; the long form of each token comes first.
var alignTokens = []struct {
	prefix string
	align  Alignment
}{
	{"CENTER:", AlignCenter},
	{"C:", AlignCenter},
	{"RIGHT:", AlignRight},
	{"R:", AlignRight},
	{"LEFT:", AlignLeft},
	{"L:", AlignLeft},
}

var reSeparatorCell = regexp.MustCompile(`^:?-{3,}:?$`)

// isPipeRow reports whether line is a pipe table row. A trailing "|h" marks
// a header row in PukiWiki.
func isPipeRow(line string) bool {
	return strings.HasPrefix(line, "|") &&
		(strings.HasSuffix(line, "|") || strings.HasSuffix(line, "|h"))
}

// splitPipeRow trims one leading and one trailing pipe and splits the rest.
func splitPipeRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	return strings.Split(line, "|")
}

// parseCell cleans a raw cell and reports the alignment token it carried.
// The "~" header marker and surrounding whitespace are removed first.
func parseCell(raw string) (text string, align Alignment, explicit bool) {
	c := strings.TrimSpace(raw)
	c = strings.TrimSpace(strings.TrimLeft(c, "~"))
	for _, tok := range alignTokens {
		if strings.HasPrefix(c, tok.prefix) {
			return strings.TrimSpace(c[len(tok.prefix):]), tok.align, true
		}
	}
	return c, AlignDefault, false
}

// isSeparatorRow reports whether line is an already-rendered Markdown
// separator row such as "| --- | :---: |".
func isSeparatorRow(line string) bool {
	for _, c := range splitPipeRow(line) {
		if !reSeparatorCell.MatchString(strings.TrimSpace(c)) {
			return false
		}
	}
	return true
}

// parsePipeTable builds a table from a run whose first row is the header.
// Column alignment comes from the header cell's token if present, else from
// the first data row with a token in that column. Rows keep their own width.
func parsePipeTable(run []string) Table {
	type cell struct {
		text     string
		align    Alignment
		explicit bool
	}
	parse := func(line string) []cell {
		raw := splitPipeRow(line)
		cells := make([]cell, len(raw))
		for i, r := range raw {
			cells[i].text, cells[i].align, cells[i].explicit = parseCell(r)
		}
		return cells
	}

	header := parse(run[0])
	rows := make([][]cell, 0, len(run)-1)
	for _, line := range run[1:] {
		rows = append(rows, parse(line))
	}

	t := Table{
		Header: make([]string, len(header)),
		Align:  make([]Alignment, len(header)),
		Rows:   make([][]string, len(rows)),
	}
	for col, h := range header {
		t.Header[col] = h.text
		if h.explicit {
			t.Align[col] = h.align
			continue
		}
		for _, row := range rows {
			if col < len(row) && row[col].explicit {
				t.Align[col] = row[col].align
				break
			}
		}
	}
	for i, row := range rows {
		t.Rows[i] = make([]string, len(row))
		for j, c := range row {
			t.Rows[i][j] = c.text
		}
	}
	return t
}

// flushPipeRun emits a finished run. A run that is already a Markdown table
// (its second row is a separator row) is copied through unchanged.
func flushPipeRun(out, run []string) []string {
	if len(run) > 1 && isSeparatorRow(run[1]) {
		return append(out, run...)
	}
	return emitTable(out, parsePipeTable(run))
}

// ConvertPipeTables replaces runs of pipe-delimited rows with Markdown
// tables, inferring column alignment from CENTER:/RIGHT:/LEFT: tokens.
// Lines inside fenced code blocks are never rows.
func ConvertPipeTables(text string) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines))

	code := codeLines(lines)
	state := scanning
	var run []string

	for i, line := range lines {
		if !code[i] && isPipeRow(line) {
			state = inRun
			if strings.HasSuffix(line, "|h") {
				line = strings.TrimSuffix(line, "h")
			}
			run = append(run, line)
			continue
		}
		if state == inRun {
			out = flushPipeRun(out, run)
			run = nil
			state = scanning
		}
		out = append(out, line)
	}
	if state == inRun {
		out = flushPipeRun(out, run)
	}
	return joinLines(out)
}
