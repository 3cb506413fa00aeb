// Package main provides an offline CLI that runs upload batches through the
// extractor and chart selector and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/dashboard"
	"github.com/tindapay/dashboard/internal/logger"
	"github.com/tindapay/dashboard/internal/models"
	"github.com/tindapay/dashboard/internal/parser"
)

type options struct {
	outputPath     string
	pretty         bool
	policy         string
	catalogPath    string
	chartsDir      string
	chartFormat    string
	nonInteractive bool
	logLevel       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "tindapay-extract FILE...",
		Short: "Extract dashboard tables and charts from TindaPay exports",
		Long: `tindapay-extract reads CSV and xlsx dashboard exports, extracts the
known tables and outlet summary, selects a chart for each table and prints
the batch as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&opts.policy, "policy", string(dashboard.PolicyIsolate), "Batch error policy: isolate or abort")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Layout catalog YAML (default: built in)")
	cmd.Flags().StringVar(&opts.chartsDir, "charts-dir", "", "Directory to write one image per charted table")
	cmd.Flags().StringVar(&opts.chartFormat, "chart-format", string(chart.FormatSVG), "Chart image format: svg or png")
	cmd.Flags().BoolVar(&opts.nonInteractive, "raw-usage", false, "Chart raw USAGE instead of waiting for a selected column")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	return cmd
}

func run(ctx context.Context, opts *options, paths []string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.SetLevel(opts.logLevel)

	policy, err := dashboard.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}
	format, err := chart.ParseFormat(opts.chartFormat)
	if err != nil {
		return err
	}

	catalog := parser.DefaultCatalog()
	if opts.catalogPath != "" {
		if catalog, err = parser.LoadCatalog(opts.catalogPath); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	if err := chart.CheckContract(catalog.SuffixContract); err != nil {
		return err
	}

	files := make([]models.UploadedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		f := models.UploadedFile{Name: filepath.Base(p), Data: data}
		if info, err := os.Stat(p); err == nil {
			f.LastModified = info.ModTime()
		}
		files = append(files, f)
	}

	svc := dashboard.NewService(
		parser.NewRegistry(catalog, 0),
		chart.NewSelector(!opts.nonInteractive),
		dashboard.WithPolicy(policy),
		dashboard.WithLogger(logger.Log),
	)
	result, err := svc.Process(ctx, files)
	if err != nil {
		return err
	}

	var jsonData []byte
	if opts.pretty {
		jsonData, err = json.MarshalIndent(result, "", "  ")
	} else {
		jsonData, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprintln(stdout, string(jsonData))
	}

	if opts.chartsDir != "" {
		if err := writeCharts(result, opts.chartsDir, format); err != nil {
			return fmt.Errorf("failed to write charts: %w", err)
		}
	}

	return nil
}

func writeCharts(result *models.BatchResult, dir string, format chart.Format) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, block := range result.Blocks {
		if block.Chart == nil {
			continue
		}
		f, err := os.Create(filepath.Join(dir, block.ID+"."+string(format)))
		if err != nil {
			return err
		}
		err = chart.Render(block.Chart, format, 0, 0, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", block.ID, err)
		}
	}

	return nil
}
