// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pukimd/internal/charset"
	"github.com/pdiddy/pukimd/internal/convert"
	"github.com/pdiddy/pukimd/internal/errlog"
	"github.com/pdiddy/pukimd/internal/manifest"
	"github.com/pdiddy/pukimd/internal/preview"
	"github.com/pdiddy/pukimd/internal/pukiwiki"
	"github.com/pdiddy/pukimd/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every page in the wiki directory to Markdown",
	Long: `Convert reads each .txt and .page file in source-dir, detects its
encoding (UTF-8, EUC-JP or Shift_JIS) unless one is given, converts the
PukiWiki markup and writes <page>.md to output-dir. Hex-encoded PukiWiki file
names are decoded into page names.

Pages whose source has not changed since the last successful run are
skipped using the manifest in log-dir; pass --force to convert them anyway.
Failures are listed in log-dir/conversion_errors.log and make the command
exit with status 1.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := convertAll(ctx, s, force, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed conversion", result.Failed)
	}
	return nil
}

// convertAll runs one full conversion with s and writes status lines to w.
// It is shared by convert and watch.
func convertAll(ctx context.Context, s types.Settings, force bool, w io.Writer) (convert.BatchResult, error) {
	out := newStatusWriter(w)

	elog := errlog.Discard()
	if s.LogDir != "" {
		l, err := errlog.Open(s.LogDir)
		if err != nil {
			return convert.BatchResult{}, err
		}
		elog = l
	}
	defer elog.Close()

	if s.Clean {
		n, err := convert.Clean(s.OutputDir, out)
		if err != nil {
			elog.Logger().Error("cleaning output directory", "dir", s.OutputDir, "error", err)
		}
		verbosef("removed %d existing .md file(s)", n)
	}

	pages, err := convert.Discover(s.SourceDir, charset.NameFallback(s.Encoding))
	if err != nil {
		return convert.BatchResult{}, err
	}

	batch := &convert.Batch{
		Converter: convert.EngineFunc(pukiwiki.Convert),
		OutputDir: s.OutputDir,
		Encoding:  s.Encoding,
		Workers:   s.Workers,
		Force:     force,
		Log:       elog,
		Out:       out,
	}

	if s.Manifest {
		store, err := manifest.Open(filepath.Join(s.LogDir, manifest.FileName))
		if err != nil {
			return convert.BatchResult{}, err
		}
		defer store.Close()
		batch.Manifest = store
	}

	if s.HTML {
		r, err := preview.New()
		if err != nil {
			return convert.BatchResult{}, err
		}
		batch.Renderer = r
	}

	result := batch.Run(ctx, pages)

	if s.Merge && result.Converted+result.Skipped > 0 {
		path, err := convert.Merge(s.OutputDir, s.LogDir, time.Now())
		if err != nil {
			elog.Logger().Error("merging output", "error", err)
			fmt.Fprintf(out, "failed:  merge (%v)\n", err)
		}
		if path != "" {
			fmt.Fprintf(out, "merged: %s\n", path)
		}
	}

	if result.HasFailures() && elog.Path() != "" {
		fmt.Fprintf(w, "See %s for details.\n", elog.Path())
	}
	return result, nil
}

func init() {
	addConvertFlags(convertCmd.Flags())
	convertCmd.Flags().Bool("force", false, "convert pages even if the manifest says they are unchanged")

	rootCmd.AddCommand(convertCmd)
}
