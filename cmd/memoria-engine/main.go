// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the memoria-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/memoria-engine/internal/ledger"
	"github.com/pdiddy/memoria-engine/internal/logging"
	"github.com/pdiddy/memoria-engine/internal/pipeline"
	"github.com/pdiddy/memoria-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the memoria-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "memoria-engine",
	Short: "Split a technical report into sections and file them for a client",
	Long: `memoria-engine extracts the sections listed in a report's index into
standalone documents, splices each one into the matching heading of its
template, and files the results into the client's folder layout according
to the mapping table.

The full batch is the run subcommand. Each stage is also available on its
own: index, extract, insert, and organize. Every batch is recorded in a run
ledger that the report subcommand exports.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./memoria-engine.yaml or ~/.config/memoria-engine/memoria-engine.yaml)")
	pf.String("config-dir", "config", "directory holding presentaciones/ and memorias/ templates")
	pf.String("output-dir", "output", "directory for artifacts and template copies")
	pf.String("mapping-file", filepath.Join("config", "mapeo.xlsx"), "keyword mapping workbook")
	pf.String("keywords-file", filepath.Join("config", "keywords.txt"), "index keywords, one per line")
	pf.String("clients-dir", "clientes", "root directory of client folders")
	pf.String("log-dir", "logs", "directory for log files")
	pf.String("log-level", "info", "console log level: debug, info, warn, or error")
	pf.String("heading-prefix", "ARTICA", "style-name prefix of heading paragraphs")
	pf.String("heading-style", "ARTICA Titulo", "style given to artifact headings")
	pf.String("title-match", string(types.MatchExact), "title matching: exact or substring")
	pf.StringSlice("pattern", nil, "extra regular expression accepted by the index scanner (repeatable)")
	pf.String("ledger", filepath.Join("logs", "ledger.db"), "run ledger database")

	for _, key := range []string{
		"config-dir", "output-dir", "mapping-file", "keywords-file", "clients-dir",
		"log-dir", "log-level", "heading-prefix", "heading-style", "title-match",
		"pattern", "ledger",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("memoria-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "memoria-engine"))
		}
	}

	viper.SetEnvPrefix("MEMORIA_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig returns the resolved configuration.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Paths: types.PathsConfig{
			ConfigDir:    viper.GetString("config-dir"),
			OutputDir:    viper.GetString("output-dir"),
			MappingFile:  viper.GetString("mapping-file"),
			KeywordsFile: viper.GetString("keywords-file"),
			ClientsDir:   viper.GetString("clients-dir"),
			LogDir:       viper.GetString("log-dir"),
			LedgerPath:   viper.GetString("ledger"),
		},
		Document: types.DocumentConfig{
			HeadingPrefix: viper.GetString("heading-prefix"),
			HeadingStyle:  viper.GetString("heading-style"),
			TitleMatch:    types.TitleMatch(viper.GetString("title-match")),
			Patterns:      viper.GetStringSlice("pattern"),
		},
	}
}

// session holds what a batch command needs: the logger, the ledger, and a
// runner wired to both.
type session struct {
	cfg      types.PipelineConfig
	log      *slog.Logger
	ledger   *ledger.Store
	runner   *pipeline.Runner
	closeLog func() error
}

func openSession() (*session, error) {
	cfg := pipelineConfig()

	logger, logPath, closeLog, err := logging.Setup(cfg.Paths.LogDir,
		logging.ParseLevel(viper.GetString("log-level")), os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	logger.Debug("logging to file", "path", logPath)

	store, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		closeLog()
		return nil, err
	}

	runner, err := pipeline.New(pipeline.Config{Pipeline: cfg, Ledger: store, Logger: logger})
	if err != nil {
		store.Close()
		closeLog()
		return nil, err
	}
	return &session{cfg: cfg, log: logger, ledger: store, runner: runner, closeLog: closeLog}, nil
}

func (s *session) Close() {
	if err := s.ledger.Close(); err != nil {
		s.log.Warn("closing ledger", "error", err)
	}
	s.closeLog()
}

// batchError turns a report with failures into the command's error so the
// process exits non-zero.
func batchError(rep pipeline.Report) error {
	if rep.HasFailures() {
		return fmt.Errorf("%d item(s) failed (run %s)", rep.Failed, rep.RunID)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
