package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meditrak/opsdash/internal/cache"
	"github.com/meditrak/opsdash/internal/exitcode"
	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/sheets"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the fact tables from the raw exports and overwrite the cache",
	RunE:  runRefresh,
}

func init() {
	f := refreshCmd.Flags()
	f.StringSliceVar(&cfg.Sources, "sources", nil, "Subset of sources to load (default: all)")
	rootCmd.AddCommand(refreshCmd)
}

// sheetReader builds the Sheets client when credentials are configured;
// without credentials the refresh proceeds with no external claims data.
func sheetReader(ctx context.Context, log zerolog.Logger) merge.SheetReader {
	if cfg.CredentialsPath == "" {
		log.Info().Msg("no spreadsheet credentials configured, skipping remote sheets")
		return nil
	}
	client, err := sheets.New(ctx, cfg.CredentialsPath, cfg.SheetRetries, cfg.SheetRetryDelay, log)
	if err != nil {
		log.Error().Err(err).Msg("sheets client init failed")
		os.Exit(exitcode.LoadError)
	}
	return client
}

func exitForPipelineError(log zerolog.Logger, err error) {
	var pe *merge.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("refresh failed")
		switch pe.Phase {
		case "load":
			os.Exit(exitcode.LoadError)
		case "clean":
			os.Exit(exitcode.ValidationError)
		default:
			os.Exit(exitcode.MergeError)
		}
	}
	log.Error().Err(err).Msg("refresh failed")
	os.Exit(exitcode.MergeError)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	result, summary, err := merge.Run(ctx, log, &cfg, sheetReader(ctx, log))
	if err != nil {
		exitForPipelineError(log, err)
	}

	if err := cache.Save(cfg.CacheDir, result); err != nil {
		log.Error().Err(err).Msg("cache write failed")
		os.Exit(exitcode.CacheError)
	}

	fmt.Printf("Refresh complete: %d IP rows, %d charge lines, %d OP rows, %d duplicates dropped (%.1fs)\n",
		summary.Admissions, summary.ChargeLines, summary.OPVisits,
		summary.DuplicatesUnmatched, summary.DurationTotal.Seconds())
	return nil
}
