package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meditrak/opsdash/internal/cache"
	"github.com/meditrak/opsdash/internal/exitcode"
	"github.com/meditrak/opsdash/internal/httpapi"
	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/pdf"
)

var serveRefreshOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API over the cached fact tables",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", "", "HTTP listen address (default :8085)")
	f.BoolVar(&serveRefreshOnStart, "refresh", false, "Run a refresh before serving instead of loading the cache")
	f.BoolVar(&cfg.ChromeNoSandbox, "chrome-no-sandbox", false, "Run Chrome without sandbox (needed in containers)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	state := httpapi.NewState()
	reader := sheetReader(ctx, log)

	refresh := func(ctx context.Context) (*merge.Result, *model.RefreshSummary, error) {
		result, summary, err := merge.Run(ctx, log, &cfg, reader)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.Save(cfg.CacheDir, result); err != nil {
			return nil, nil, fmt.Errorf("cache write: %w", err)
		}
		return result, summary, nil
	}

	switch {
	case serveRefreshOnStart:
		result, summary, err := refresh(ctx)
		if err != nil {
			exitForPipelineError(log, err)
		}
		state.Set(result, summary.BatchID)
	case cache.Exists(cfg.CacheDir):
		result, err := cache.Load(cfg.CacheDir)
		if err != nil {
			log.Error().Err(err).Msg("cache read failed")
			os.Exit(exitcode.CacheError)
		}
		state.Set(result, "cached")
		log.Info().Int("ip_rows", len(result.IP)).Int("op_rows", len(result.OP)).Msg("serving cached tables")
	default:
		log.Warn().Msg("no cache found, serving empty tables until the first refresh")
	}

	renderer := pdf.NewChromeRenderer(log, cfg.ChromeNoSandbox)
	defer renderer.Close()

	server := httpapi.NewServer(log, state, refresh, renderer)
	log.Info().Str("addr", cfg.ListenAddr).Msg("dashboard API listening")
	if err := server.Router().Run(cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(exitcode.ServeError)
	}
	return nil
}
