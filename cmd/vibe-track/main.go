// Package main provides the vibe-track command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errUsage marks errors caused by bad arguments rather than failed work.
var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	a := &app{logger: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	_ = a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errUsage) {
		return ExitUsage
	}
	return ExitError
}

// app holds state shared by all sub-commands.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-track",
		Short: "Transcript track renderer",
		Long: `vibe-track draws gene transcript tracks (exons, coding regions and introns)
for genomic regions as SVG or PNG images, using GENCODE annotations.`,
		Example: `  # Download GENCODE annotations (one-time setup)
  vibe-track download --assembly GRCh38

  # Draw the KRAS locus
  vibe-track render KRAS -o kras.svg

  # Draw a region as PNG from a DuckDB transcript store
  vibe-track render chr12:25205246-25250929 --db transcripts.duckdb --format png

  # Draw every region listed in a file
  vibe-track batch regions.txt --out-dir tracks/`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			bindFlags(cmd)

			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("vibe-track version %s (%s) built %s\n", version, commit, date))
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.vibe-track.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.renderCmd())
	root.AddCommand(a.batchCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// newLogger builds a production logger, or a development logger at debug
// level when verbose is set. Both write to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// usageArgs wraps a cobra positional-argument validator so its failures
// map to ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}
