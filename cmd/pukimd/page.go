// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pukimd/internal/charset"
	"github.com/pdiddy/pukimd/internal/pukiwiki"
	"github.com/pdiddy/pukimd/internal/settings"
)

var pageCmd = &cobra.Command{
	Use:   "page [file|-]",
	Short: "Convert a single PukiWiki page and print the Markdown",
	Long: `Page converts one PukiWiki source file, or standard input when the
argument is "-" or missing, and writes the Markdown to standard output (or
to --output).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPage,
}

func runPage(cmd *cobra.Command, args []string) error {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}

	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	text, used, err := charset.Decode(data, viper.GetString(settings.KeyEncoding))
	switch {
	case errors.Is(err, charset.ErrUndetectable):
		fmt.Fprintf(os.Stderr, "warning: %s: %v, reading as %s\n", name, err, used)
	case err != nil:
		return err
	default:
		verbosef("%s: %s", name, used)
	}

	md := pukiwiki.Convert(text)

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), md)
		return err
	}
	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func init() {
	pageCmd.Flags().String("encoding", settings.Defaults().Encoding, "source encoding: auto, utf-8, euc-jp or shift_jis")
	pageCmd.Flags().StringP("output", "o", "", "write the Markdown to this file instead of stdout")

	rootCmd.AddCommand(pageCmd)
}
