// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview renders converted Markdown as a standalone HTML page so a
// conversion can be checked in a browser before importing it into a vault.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrRender indicates goldmark failed to render the document.
var ErrRender = errors.New("HTML rendering failed")

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github"

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 50em; margin: 2em auto; padding: 0 1em; font-family: sans-serif; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.5em; }
pre { padding: 0.5em; overflow-x: auto; }
%s</style>
</head>
<body>
%s</body>
</html>
`

// reWikiLink matches Obsidian links: [[target]] or [[target|alias]].
var reWikiLink = regexp.MustCompile(`\[\[([^\]|\n]+)(?:\|([^\]\n]+))?\]\]`)

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md      goldmark.Markdown
	css     string
	linkExt string
}

// Option configures a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	style   string
	linkExt string
}

// WithStyle selects the chroma style for code blocks.
func WithStyle(name string) Option {
	return func(c *rendererConfig) { c.style = name }
}

// WithLinkExt sets the extension appended to wiki link targets
// (default ".html", so links resolve between previews).
func WithLinkExt(ext string) Option {
	return func(c *rendererConfig) { c.linkExt = ext }
}

// New builds a Renderer with GFM tables and strikethrough, heading IDs and
// class-based syntax highlighting.
func New(opts ...Option) (*Renderer, error) {
	cfg := rendererConfig{style: DefaultStyle, linkExt: ".html"}
	for _, opt := range opts {
		opt(&cfg)
	}

	style := styles.Get(cfg.style)
	var css strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&css, style); err != nil {
		return nil, fmt.Errorf("writing %s stylesheet: %w", cfg.style, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(cfg.style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)

	return &Renderer{md: md, css: css.String(), linkExt: cfg.linkExt}, nil
}

// Render returns a complete HTML5 document for markdown. Wiki links are
// turned into ordinary links first since goldmark does not know them.
func (r *Renderer) Render(ctx context.Context, title, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := r.md.Convert([]byte(r.resolveWikiLinks(markdown)), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), r.css, body.String()), nil
}

// resolveWikiLinks rewrites wiki links outside code. Fenced blocks and
// inline code spans are copied unchanged.
func (r *Renderer) resolveWikiLinks(markdown string) string {
	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		if fence != "" {
			if isClosingFence(line, fence) {
				fence = ""
			}
			continue
		}
		if fence = openingFence(line); fence != "" {
			continue
		}
		lines[i] = r.resolveLine(line)
	}
	return strings.Join(lines, "\n")
}

// resolveLine splits line into code spans and text, rewriting links in the
// text only. A backtick run with no closing run of the same length is text.
func (r *Renderer) resolveLine(line string) string {
	var out, text strings.Builder
	rest := line
	for {
		start := strings.IndexByte(rest, '`')
		if start < 0 {
			break
		}
		n := runLength(rest[start:], '`')
		end := closingRun(rest[start+n:], n)
		if end < 0 {
			text.WriteString(rest[:start+n])
			rest = rest[start+n:]
			continue
		}
		stop := start + n + end + n
		text.WriteString(rest[:start])
		out.WriteString(r.linkify(text.String()))
		text.Reset()
		out.WriteString(rest[start:stop])
		rest = rest[stop:]
	}
	text.WriteString(rest)
	out.WriteString(r.linkify(text.String()))
	return out.String()
}

func (r *Renderer) linkify(text string) string {
	return reWikiLink.ReplaceAllStringFunc(text, func(m string) string {
		sub := reWikiLink.FindStringSubmatch(m)
		target := strings.TrimSpace(sub[1])
		label := strings.TrimSpace(sub[2])
		if label == "" {
			label = target
		}
		return fmt.Sprintf("[%s](<%s%s>)", label, target, r.linkExt)
	})
}

// openingFence returns the fence marker that opens a code block on line, or
// "" if line is not a fence. Up to three spaces of indentation are allowed.
func openingFence(line string) string {
	line = trimIndent(line)
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return ""
	}
	n := runLength(line, line[0])
	if n < 3 {
		return ""
	}
	if line[0] == '`' && strings.ContainsRune(line[n:], '`') {
		return ""
	}
	return line[:n]
}

func isClosingFence(line, fence string) bool {
	line = strings.TrimRight(trimIndent(line), " \t")
	return len(line) >= len(fence) && runLength(line, fence[0]) == len(line)
}

func trimIndent(line string) string {
	for i := 0; i < 3 && strings.HasPrefix(line, " "); i++ {
		line = line[1:]
	}
	return line
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// closingRun returns the offset in s of the first backtick run exactly n
// long, or -1.
func closingRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := runLength(s[i:], '`')
		if m == n {
			return i
		}
		i += m
	}
	return -1
}
