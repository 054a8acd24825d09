package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meditrak/opsdash/internal/config"
	"github.com/meditrak/opsdash/internal/exitcode"
	"github.com/meditrak/opsdash/internal/logging"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "opsdash",
	Short: "Hospital operations dashboard backend",
	Long:  "Loads HIS CSV exports and the TPA settlement sheet, reconciles them into IP/OP fact tables, and serves filtering, KPI and NABL reporting over them.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", os.Getenv("OPSDASH_CONFIG"), "Path to YAML config file")
	pf.StringVar(&cfg.DataDir, "data-dir", "", "Directory holding the per-source CSV folders")
	pf.StringVar(&cfg.CacheDir, "cache-dir", "", "Directory for the Parquet cache files")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}

// setup initializes logging and resolves the effective config from flags,
// the optional config file and defaults. Exits on invalid config.
func setup() zerolog.Logger {
	log := logging.Setup(cfg.LogFormat)
	if cfgFile != "" {
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			log.Error().Err(err).Str("config", cfgFile).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	return log
}
