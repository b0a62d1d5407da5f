// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import (
	"regexp"
	"strings"
)

// rewrite is a single regexp substitution applied to the whole document.
type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// lineRewrites run in order. Longer marker runs come before shorter ones so
// "***x" is never half-consumed by the "*x" rule.
var lineRewrites = []rewrite{
	{regexp.MustCompile(`(?m)^\*\*\*(.+)$`), "### ${1}"},
	{regexp.MustCompile(`(?m)^\*\*(.+)$`), "## ${1}"},
	{regexp.MustCompile(`(?m)^\*(.+)$`), "# ${1}"},

	{regexp.MustCompile(`(?m)^\+ (.+)$`), "* ${1}"},

	// Three dashes widen to four; kept for output parity with existing vaults.
	{regexp.MustCompile(`(?m)^---([^\s-].*)$`), "---- ${1}"},
	{regexp.MustCompile(`(?m)^--([^\s-].*)$`), "-- ${1}"},
	{regexp.MustCompile(`(?m)^-([^\s-].*)$`), "- ${1}"},
}

// spanRewrites match across line boundaries.
var spanRewrites = []rewrite{
	{regexp.MustCompile(`(?s)'''(.*?)'''`), "**${1}**"},
	{regexp.MustCompile(`(?s)''(.*?)''`), "*${1}*"},
}

var (
	reStrike  = regexp.MustCompile(`%%(.*?)%%`)
	reAlias   = regexp.MustCompile(`\[\[([^>\]\n]+)>([^\]\n]+)\]\]`)
	reImage   = regexp.MustCompile(`#ref\(([^,)\n]+)(?:,([^)\n]*))?\)`)
	reLineBrk = regexp.MustCompile(`(?mi)^#br[^\S\n]*$`)
)

// RewriteInline converts headings, list markers, emphasis, strikethrough,
// links, images and #br lines. Bare [[target]] links are already valid
// Obsidian links and pass through.
func RewriteInline(text string) string {
	for _, r := range lineRewrites {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	for _, r := range spanRewrites {
		text = r.re.ReplaceAllString(text, r.repl)
	}

	text = reStrike.ReplaceAllStringFunc(text, func(m string) string {
		inner := reStrike.FindStringSubmatch(m)[1]
		return "~~" + strings.TrimSpace(inner) + "~~"
	})

	text = reAlias.ReplaceAllString(text, "[[${2}|${1}]]")
	text = reImage.ReplaceAllString(text, "![${2}](${1})")
	return reLineBrk.ReplaceAllString(text, "")
}
