package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/render"
)

// regionEntry is one line of a batch regions file.
type regionEntry struct {
	Line int
	Spec string // region, gene symbol or transcript ID
	Name string // output file stem
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// parseRegionList reads one region or gene per line, optionally followed by
// an output name. Blank lines and lines starting with '#' are skipped.
func parseRegionList(r io.Reader) ([]regionEntry, error) {
	var entries []regionEntry
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: expected '<region|gene> [name]', got %d fields", lineNum, len(fields))
		}
		e := regionEntry{Line: lineNum, Spec: fields[0]}
		if len(fields) == 2 {
			e.Name = fields[1]
		} else {
			e.Name = fields[0]
		}
		e.Name = strings.Trim(unsafeName.ReplaceAllString(e.Name, "_"), "_")
		if e.Name == "" {
			e.Name = fmt.Sprintf("region%d", lineNum)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading regions: %w", err)
	}
	return entries, nil
}

func (a *app) batchCmd() *cobra.Command {
	var (
		src    sourceFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "batch <regions-file>",
		Short: "Draw many regions in parallel",
		Long: `Draw one image per line of a regions file. Each line holds a region
(chrom:start-end), gene symbol or transcript ID, optionally followed by an output name.
Lines starting with '#' are ignored. Regions are drawn concurrently and
written to --out-dir as <name>.svg or <name>.png.`,
		Example: `  vibe-track batch regions.txt --out-dir tracks/
  vibe-track batch regions.txt --format png --workers 8 --db transcripts.duckdb`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, src, args[0], outDir)
		},
	}

	src.register(cmd)
	registerImageFlags(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the rendered images")
	cmd.Flags().Int("workers", 0, "Number of render workers (default: number of CPUs)")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, src sourceFlags, regionsFile, outDir string) error {
	f, err := os.Open(regionsFile)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	entries, err := parseRegionList(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", regionsFile, err)
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	source, closeSource, err := a.openSource(src, cfg.Assembly)
	if err != nil {
		return err
	}
	defer closeSource()

	r := render.NewRenderer(source, opts)
	r.SetLogger(a.logger)

	ctx := cmd.Context()
	items := make(chan render.WorkItem, len(entries))
	failed := 0
	seq := 0
	for _, e := range entries {
		region, err := render.ResolveRegion(ctx, source, e.Spec)
		if err != nil {
			a.logger.Warn("skipping region", zap.Int("line", e.Line), zap.String("region", e.Spec), zap.Error(err))
			failed++
			continue
		}
		items <- render.WorkItem{Seq: seq, Region: region, Extra: e}
		seq++
	}
	close(items)

	written := 0
	results := r.ParallelRender(ctx, items, cfg.Render.Workers)
	err = render.OrderedCollect(results, func(res render.WorkResult) error {
		e := res.Extra.(regionEntry)
		if res.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			a.logger.Warn("render failed", zap.Int("line", e.Line), zap.Stringer("region", res.Region), zap.Error(res.Err))
			failed++
			return nil
		}

		path := filepath.Join(outDir, e.Name+opts.Format.Ext())
		if err := os.WriteFile(path, res.Result.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		written++
		a.logger.Debug("wrote image", zap.String("path", path), zap.Int("transcripts", res.Result.Features))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d images to %s\n", written, outDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d regions failed", failed, len(entries))
	}
	return nil
}
