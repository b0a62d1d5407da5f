// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pukiwiki

import "regexp"

// reComment matches "//" at line start or after whitespace, through end of
// line. Unicode separators count as whitespace so a full-width space anchors
// a comment the same way an ASCII space does.
var reComment = regexp.MustCompile(`(^|[\s\p{Z}\x{85}])//.*`)

// StripComments removes line comments. The character that anchored the
// comment is kept, so "a //note" becomes "a ". A "//" glued to preceding
// text, as in "https://", is left alone.
func StripComments(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		if loc := reComment.FindStringSubmatchIndex(line); loc != nil {
			// loc[3] is the end of the anchor group.
			lines[i] = line[:loc[3]]
		}
	}
	return joinLines(lines)
}
