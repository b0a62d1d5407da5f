// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package charset decodes PukiWiki source files to UTF-8. PukiWiki sites
// store pages as UTF-8, EUC-JP or Shift_JIS depending on their age; Detect
// tries them in that order.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Canonical encoding names.
const (
	Auto     = "auto"
	UTF8     = "utf-8"
	EUCJP    = "euc-jp"
	ShiftJIS = "shift_jis"
)

var (
	// ErrUndetectable is returned when no supported encoding decodes the
	// input cleanly.
	ErrUndetectable = errors.New("encoding could not be detected")

	// ErrUnknownEncoding is returned for an encoding name outside Names.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

var aliases = map[string]string{
	"":          Auto,
	"auto":      Auto,
	"utf-8":     UTF8,
	"utf8":      UTF8,
	"euc-jp":    EUCJP,
	"eucjp":     EUCJP,
	"euc_jp":    EUCJP,
	"shift_jis": ShiftJIS,
	"shift-jis": ShiftJIS,
	"shiftjis":  ShiftJIS,
	"sjis":      ShiftJIS,
}

// Names lists the accepted canonical names, "auto" first.
func Names() []string {
	return []string{Auto, UTF8, EUCJP, ShiftJIS}
}

// Canonical maps an encoding name or alias to its canonical form. The empty
// string means Auto.
func Canonical(name string) (string, error) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownEncoding, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Lookup returns the x/text encoding for a concrete name. Auto has no
// encoding and is reported as unknown.
func Lookup(name string) (encoding.Encoding, error) {
	c, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	switch c {
	case UTF8:
		return unicode.UTF8BOM, nil
	case EUCJP:
		return japanese.EUCJP, nil
	case ShiftJIS:
		return japanese.ShiftJIS, nil
	}
	return nil, fmt.Errorf("%w: %q is not a concrete encoding", ErrUnknownEncoding, name)
}

// NameFallback returns the encoding used for hex page names that are not
// valid UTF-8: the configured encoding when it is concrete, EUC-JP
// otherwise.
func NameFallback(name string) encoding.Encoding {
	if enc, err := Lookup(name); err == nil {
		return enc
	}
	return japanese.EUCJP
}

// Detect returns the first encoding among UTF-8, EUC-JP and Shift_JIS that
// decodes data without substitutions.
func Detect(data []byte) (string, error) {
	if utf8.Valid(data) {
		return UTF8, nil
	}
	for _, name := range []string{EUCJP, ShiftJIS} {
		enc, _ := Lookup(name)
		out, err := enc.NewDecoder().Bytes(data)
		if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
			return name, nil
		}
	}
	return "", ErrUndetectable
}

// Decode converts data to UTF-8 text with "\n" line endings. With name Auto
// the encoding is detected; when detection fails the data is read as UTF-8
// with invalid sequences replaced, and ErrUndetectable is returned together
// with the text so the caller can warn and carry on. A UTF-8 BOM is dropped.
func Decode(data []byte, name string) (text, used string, err error) {
	used, err = Canonical(name)
	if err != nil {
		return "", "", err
	}

	var soft error
	if used == Auto {
		used, soft = Detect(data)
		if soft != nil {
			used = UTF8
		}
	}

	enc, err := Lookup(used)
	if err != nil {
		return "", "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", used, fmt.Errorf("decoding as %s: %w", used, err)
	}
	return normalizeNewlines(string(out)), used, soft
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return newlines.Replace(s)
}
