// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pukimd/internal/charset"
	"github.com/pdiddy/pukimd/internal/convert"
	"github.com/pdiddy/pukimd/internal/preview"
	"github.com/pdiddy/pukimd/internal/pukiwiki"
	"github.com/pdiddy/pukimd/internal/settings"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a page as HTML for a quick look in a browser",
	Long: `Preview renders a converted Markdown file, or a PukiWiki source file
(.txt/.page, converted on the fly), as a standalone HTML page. Tables,
strikethrough and fenced code are rendered; wiki links point at sibling
.html previews. The output defaults to the input path with an .html
extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	in := args[0]
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	text, _, err := charset.Decode(data, viper.GetString(settings.KeyEncoding))
	if err != nil && !errors.Is(err, charset.ErrUndetectable) {
		return err
	}
	if convert.IsSource(in) {
		text = pukiwiki.Convert(text)
	}

	style, _ := cmd.Flags().GetString("style")
	r, err := preview.New(preview.WithStyle(style))
	if err != nil {
		return err
	}

	title := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	html, err := r.Render(context.Background(), title, text)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".html"
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote: %s\n", out)
	return nil
}

func init() {
	previewCmd.Flags().StringP("output", "o", "", "HTML output path (default: <file>.html)")
	previewCmd.Flags().String("style", preview.DefaultStyle, "chroma style for code blocks")
	previewCmd.Flags().String("encoding", settings.Defaults().Encoding, "source encoding: auto, utf-8, euc-jp or shift_jis")

	rootCmd.AddCommand(previewCmd)
}
