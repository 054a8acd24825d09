package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meditrak/opsdash/internal/cache"
	"github.com/meditrak/opsdash/internal/exitcode"
	"github.com/meditrak/opsdash/internal/pdf"
	"github.com/meditrak/opsdash/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the NABL monthly report as PDF from the cached fact tables",
	RunE:  runReport,
}

func init() {
	now := time.Now()
	f := reportCmd.Flags()
	f.IntVar(&cfg.Month, "month", int(now.Month()), "Report month (1-12)")
	f.IntVar(&cfg.Year, "year", now.Year(), "Report year")
	f.StringVar(&cfg.OutputPath, "out", "nabl-report.pdf", "Output PDF path")
	f.BoolVar(&cfg.ChromeNoSandbox, "chrome-no-sandbox", false, "Run Chrome without sandbox (needed in containers)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := setup()

	if cfg.Month < 1 || cfg.Month > 12 {
		log.Error().Int("month", cfg.Month).Msg("month must be 1-12")
		os.Exit(exitcode.UsageError)
	}
	if !cache.Exists(cfg.CacheDir) {
		log.Error().Str("cache_dir", cfg.CacheDir).Msg("no cached fact tables, run `opsdash refresh` first")
		os.Exit(exitcode.CacheError)
	}
	result, err := cache.Load(cfg.CacheDir)
	if err != nil {
		log.Error().Err(err).Msg("cache read failed")
		os.Exit(exitcode.CacheError)
	}

	rep := report.NABL(result.IP, cfg.Year, time.Month(cfg.Month))
	html, err := pdf.NABLHTML(rep)
	if err != nil {
		log.Error().Err(err).Msg("report build failed")
		os.Exit(exitcode.ReportError)
	}

	renderer := pdf.NewChromeRenderer(log, cfg.ChromeNoSandbox)
	defer renderer.Close()
	data, err := renderer.Render(context.Background(), html)
	if err != nil {
		log.Error().Err(err).Msg("PDF render failed")
		os.Exit(exitcode.ReportError)
	}

	if err := os.WriteFile(cfg.OutputPath, data, 0o644); err != nil {
		log.Error().Err(err).Msg("write PDF failed")
		os.Exit(exitcode.ReportError)
	}

	fmt.Printf("Report written: %s (%s %d, %d bytes)\n",
		cfg.OutputPath, time.Month(cfg.Month), cfg.Year, len(data))
	return nil
}
