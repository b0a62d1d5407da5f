// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

var statusColors = []struct {
	prefix string
	color  *color.Color
}{
	{"converted:", color.New(color.FgGreen)},
	{"skipped:", color.New(color.FgYellow)},
	{"failed:", color.New(color.FgRed)},
	{"removed:", color.New(color.FgCyan)},
	{"merged:", color.New(color.FgCyan)},
	{"Batch summary:", color.New(color.Bold)},
}

// statusWriter colours the batch status lines by their leading word. Each
// Write is expected to carry one line, as the batch driver emits them.
type statusWriter struct {
	w io.Writer
}

func newStatusWriter(w io.Writer) io.Writer {
	return statusWriter{w: w}
}

func (s statusWriter) Write(p []byte) (int, error) {
	line := string(p)
	body := strings.TrimRight(line, "\n")
	lead := strings.TrimLeft(body, "\n")

	for _, sc := range statusColors {
		if !strings.HasPrefix(lead, sc.prefix) {
			continue
		}
		if _, err := io.WriteString(s.w, body[:len(body)-len(lead)]); err != nil {
			return 0, err
		}
		if _, err := sc.color.Fprint(s.w, lead); err != nil {
			return 0, err
		}
		if _, err := io.WriteString(s.w, line[len(body):]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return s.w.Write(p)
}
