// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagename

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func hexOf(s string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(s)))
}

func TestDecode(t *testing.T) {
	eucName, err := japanese.EUCJP.NewEncoder().String("日本語")
	require.NoError(t, err)

	tests := []struct {
		name    string
		base    string
		want    string
		wantErr error
	}{
		{name: "ascii page", base: hexOf("FrontPage"), want: "FrontPage"},
		{name: "utf-8 page", base: hexOf("メモ"), want: "メモ"},
		{name: "euc-jp page via fallback", base: hexOf(eucName), want: "日本語"},
		{name: "lower-case hex", base: strings.ToLower(hexOf("Help")), want: "Help"},
		{name: "not hex", base: "FrontPage", want: "FrontPage", wantErr: ErrNotHex},
		{name: "odd length", base: "ABC", want: "ABC", wantErr: ErrNotHex},
		{name: "too short", base: "A", want: "A", wantErr: ErrNotHex},
		{name: "empty", base: "", want: "", wantErr: ErrNotHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.base, japanese.EUCJP)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_InvalidBytesKeepBase(t *testing.T) {
	// 0xFF is neither UTF-8 nor EUC-JP.
	got, err := Decode("FFFF", japanese.EUCJP)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotHex)
	assert.Equal(t, "FFFF", got)

	got, err = Decode("FFFF", nil)
	require.Error(t, err)
	assert.Equal(t, "FFFF", got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FrontPage", "FrontPage"},
		{"Parent/Child", "Parent_Child"},
		{`a\b:c*d?e"f<g>h|i`, "a_b_c_d_e_f_g_h_i"},
		{"tab\there", "tab_here"},
		{"trailing. ", "trailing"},
		{"...", "_"},
		{"", "_"},
		{"日本語/メモ", "日本語_メモ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "Sanitize(%q)", tt.in)
	}
}

func TestFileName(t *testing.T) {
	got, err := FileName(hexOf("Docs/Setup"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Docs_Setup", got)

	got, err = FileName("plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
}
