package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/render"
)

// registerImageFlags adds the image flags shared by render and batch.
func registerImageFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "svg", "Output format: svg or png")
	cmd.Flags().Int("width", 800, "Image width in pixels")
	cmd.Flags().String("intron-style", "curve", "Intron connector: line, hat, curve or none")
	cmd.Flags().Bool("canonical", false, "Only draw canonical transcripts")
}

func (a *app) renderCmd() *cobra.Command {
	var (
		src        sourceFlags
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "render <region|gene|transcript>",
		Short: "Draw the transcripts of one region",
		Long: `Draw the transcripts overlapping a genomic region as an SVG or PNG image.

The region is given as chrom:start-end (1-based, inclusive), as a gene
symbol, or as a transcript ID. Genes and transcripts are expanded to their
extent plus a small flank.`,
		Example: `  vibe-track render KRAS -o kras.svg
  vibe-track render chr12:25205246-25250929 -o kras.png
  vibe-track render 17:7661779-7687538 --db transcripts.duckdb --intron-style hat > tp53.svg`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile != "" && !cmd.Flags().Changed("format") {
				if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputFile)), "."); ext != "" {
					if _, err := render.ParseFormat(ext); err == nil {
						viper.Set("render.format", ext)
					}
				}
			}
			return a.runRender(cmd, src, args[0], outputFile)
		},
	}

	src.register(cmd)
	registerImageFlags(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, src sourceFlags, spec, outputFile string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}

	source, closeSource, err := a.openSource(src, cfg.Assembly)
	if err != nil {
		return err
	}
	defer closeSource()

	ctx := cmd.Context()
	region, err := render.ResolveRegion(ctx, source, spec)
	if err != nil {
		return resolveError(err)
	}

	r := render.NewRenderer(source, opts)
	r.SetLogger(a.logger)

	res, err := r.RenderRegion(ctx, region)
	if err != nil {
		return err
	}

	if outputFile == "" {
		if _, err := os.Stdout.Write(res.Data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if err := os.WriteFile(outputFile, res.Data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	a.logger.Info("rendered",
		zap.Stringer("region", region),
		zap.Int("transcripts", res.Features),
		zap.Int("rows", res.Rows),
		zap.String("output", outputName(outputFile)))
	return nil
}

// resolveError marks bad region or gene arguments as usage errors.
func resolveError(err error) error {
	if errors.Is(err, render.ErrUnknownGene) || errors.Is(err, cache.ErrInvalidRegion) {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return err
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
