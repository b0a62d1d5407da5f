// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pukiwiki converts PukiWiki markup into Obsidian-flavoured Markdown.
//
// Conversion is a fixed pipeline of whole-document stages. Each stage is a
// pure func(string) string; the order matters because later stages classify
// lines that earlier stages have already rewritten:
//
//	comments -> inline -> preformatted -> comma tables -> pipe tables
//
// The package holds no state between calls, so Convert is safe to call from
// many goroutines at once.
package pukiwiki

import "strings"

// Stage is one step of the conversion pipeline.
type Stage struct {
	// Name identifies the stage in tests and diagnostics.
	Name string

	// Apply rewrites the whole document.
	Apply func(string) string
}

var pipeline = []Stage{
	{Name: "comments", Apply: StripComments},
	{Name: "inline", Apply: RewriteInline},
	{Name: "preformatted", Apply: ExtractPreformatted},
	{Name: "comma-tables", Apply: ConvertCommaTables},
	{Name: "pipe-tables", Apply: ConvertPipeTables},
}

// Stages returns the conversion stages in the order Convert applies them.
func Stages() []Stage {
	out := make([]Stage, len(pipeline))
	copy(out, pipeline)
	return out
}

// Convert turns PukiWiki source text into Markdown. It accepts any input and
// never fails; the result has surrounding whitespace trimmed.
func Convert(src string) string {
	text := src
	for _, s := range pipeline {
		text = s.Apply(text)
	}
	return strings.TrimSpace(text)
}

// splitLines splits a document on "\n". The empty document is one empty line,
// so joinLines(splitLines(s)) == s for every s.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
