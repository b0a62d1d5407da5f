// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagename recovers readable page names from PukiWiki file names
// and makes them safe to use as Markdown file names.
//
// PukiWiki stores the page "FrontPage" as wiki/46726F6E7450616765.txt: the
// base name is the upper-case hex of the page name's bytes in the site's
// encoding.
package pagename

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go4.org/bytereplacer"
	"golang.org/x/text/encoding"
)

// ErrNotHex reports that a base name is not a hex-encoded page name and was
// returned unchanged.
var ErrNotHex = errors.New("not a hex-encoded page name")

// Decode hex-decodes base. The bytes are used as UTF-8 when valid, otherwise
// decoded with fallback (typically EUC-JP for older sites). If base is not
// even-length hex, or decodes to itself, it is returned with ErrNotHex. Any
// other error also returns base unchanged.
func Decode(base string, fallback encoding.Encoding) (string, error) {
	if len(base) < 2 || len(base)%2 != 0 {
		return base, ErrNotHex
	}
	raw, err := hex.DecodeString(base)
	if err != nil {
		return base, ErrNotHex
	}

	var name string
	switch {
	case utf8.Valid(raw):
		name = string(raw)
	case fallback != nil:
		out, err := fallback.NewDecoder().Bytes(raw)
		if err != nil {
			return base, fmt.Errorf("decoding page name %s: %w", base, err)
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return base, fmt.Errorf("decoding page name %s: invalid byte sequence", base)
		}
		name = string(out)
	default:
		return base, fmt.Errorf("decoding page name %s: not valid UTF-8", base)
	}

	if name == base {
		return base, ErrNotHex
	}
	return name, nil
}

var reserved = newSanitizer()

func newSanitizer() *bytereplacer.Replacer {
	oldnew := []string{
		"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
		`"`, "_", "<", "_", ">", "_", "|", "_",
	}
	for b := 0; b < 0x20; b++ {
		oldnew = append(oldnew, string(rune(b)), "_")
	}
	oldnew = append(oldnew, "\x7f", "_")
	return bytereplacer.New(oldnew...)
}

// Sanitize makes name usable as a file name on Windows, macOS and Linux.
// Path separators and reserved characters become "_", trailing dots and
// spaces are dropped. An empty result becomes "_".
func Sanitize(name string) string {
	s := string(reserved.Replace([]byte(name)))
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return "_"
	}
	return s
}

// FileName decodes and sanitizes a source base name in one step. The error,
// if any, is informational: the returned name is always usable.
func FileName(base string, fallback encoding.Encoding) (string, error) {
	name, err := Decode(base, fallback)
	if errors.Is(err, ErrNotHex) {
		err = nil
	}
	return Sanitize(name), err
}
