// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ik5/audpeaks"
	"github.com/ik5/audpeaks/waveform"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	formatDat  = "dat"
	formatJSON = "json"
)

type generateOptions struct {
	outputFormat string
	outputDir    string
	jobs         int
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Write a peaks file for each audio input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			return runGenerate(cmd.Context(), args, cfg.Waveform.Params(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.outputFormat, "output-format", formatDat, "Output format (dat|json)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for output files (default: next to each input)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Files processed concurrently")

	return cmd
}

func runGenerate(ctx context.Context, inputs []string, p waveform.Params, opts generateOptions) error {
	format := strings.ToLower(opts.outputFormat)
	if format != formatDat && format != formatJSON {
		return fmt.Errorf("unsupported output format %q (want dat|json)", opts.outputFormat)
	}

	if err := p.Validate(); err != nil {
		return err
	}

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	gen := audpeaks.NewGenerator(nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))

	for _, in := range inputs {
		g.Go(func() error {
			out := outputPath(in, opts.outputDir, format)

			start := time.Now()
			env, err := generateFile(ctx, gen, in, p)
			if err != nil {
				slog.Error("generate failed", slog.String("file", in), slog.String("error", err.Error()))
				return fmt.Errorf("%s: %w", in, err)
			}

			n, err := writeOutput(out, env, format)
			if err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}

			slog.Info("peaks written",
				slog.String("file", in),
				slog.String("output", out),
				slog.Int("channels", env.Channels),
				slog.Int("length", env.Length),
				slog.Int64("bytes", n),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)

			return nil
		})
	}

	return g.Wait()
}

func generateFile(ctx context.Context, gen *audpeaks.Generator, path string, p waveform.Params) (*waveform.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return gen.Generate(ctx, path, f, p)
}

// outputPath replaces the extension of in with format, inside dir if set.
func outputPath(in, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + "." + format
	if dir == "" {
		dir = filepath.Dir(in)
	}

	return filepath.Join(dir, base)
}

func writeOutput(path string, env *waveform.Envelope, format string) (int64, error) {
	var (
		b   []byte
		err error
	)
	if format == formatJSON {
		b, err = json.Marshal(env)
	} else {
		b, err = env.MarshalBinary()
	}
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return 0, err
	}

	return int64(len(b)), nil
}
