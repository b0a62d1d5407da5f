// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import "strings"

// minFence is the shortest backtick run that opens a fenced code block.
const minFence = 3

// scanState is the two-state automaton shared by the block passes.
type scanState int

const (
	scanning scanState = iota
	inRun
)

// ExtractPreformatted turns each run of space-indented lines into a fenced
// code block at the position of the run. One leading space is removed from
// every line of the run; further indentation is kept. The fence is longer
// than any backtick run inside the block so block content cannot close it.
func ExtractPreformatted(text string) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines))

	state := scanning
	var block []string

	flush := func() {
		fence := fenceFor(block)
		out = append(out, fence)
		out = append(out, block...)
		out = append(out, fence)
		block = block[:0]
		state = scanning
	}

	for _, line := range lines {
		if strings.HasPrefix(line, " ") {
			state = inRun
			block = append(block, line[1:])
			continue
		}
		if state == inRun {
			flush()
		}
		out = append(out, line)
	}
	if state == inRun {
		flush()
	}
	return joinLines(out)
}

func fenceFor(block []string) string {
	n := minFence
	for _, line := range block {
		n = max(n, longestBacktickRun(line)+1)
	}
	return strings.Repeat("`", n)
}

func longestBacktickRun(line string) int {
	longest, run := 0, 0
	for i := 0; i < len(line); i++ {
		if line[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

// codeLines marks the lines that belong to a fenced code block, fence lines
// included. A fence opens on a line starting with at least three backticks
// and closes on the next line made only of at least as many backticks. An
// opening fence with no closing line is ordinary text.
func codeLines(lines []string) []bool {
	code := make([]bool, len(lines))
	for i := 0; i < len(lines); i++ {
		n := leadingBackticks(lines[i])
		if n < minFence {
			continue
		}
		end := closingFence(lines, i+1, n)
		if end < 0 {
			continue
		}
		for j := i; j <= end; j++ {
			code[j] = true
		}
		i = end
	}
	return code
}

func leadingBackticks(line string) int {
	return len(line) - len(strings.TrimLeft(line, "`"))
}

func closingFence(lines []string, from, n int) int {
	for i := from; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if len(line) >= n && leadingBackticks(line) == len(line) {
			return i
		}
	}
	return -1
}
