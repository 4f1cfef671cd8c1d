// The run command: one full fetch, append, sync cycle.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shopfeed/shopfeed"
	"github.com/shopfeed/shopfeed/remote"
	"github.com/shopfeed/shopfeed/snapshot"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch all configured feeds and update the local and remote tables",
	Long: `Fetch every configured product feed once, normalize the catalog
entries into product and variant rows, append them to the local
history files, and mirror the run's datasets into the configured
spreadsheet. Skipped feeds and records are reported, not silently
dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.GetString(cfgKeyLogMode))
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck // stderr sync failure is harmless

		runConfig, cleanup, err := buildRunConfig(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		pipe := shopfeed.NewPipeline(
			shopfeed.NewHTTPRetriever(nil),
			shopfeed.WithLogger(logger),
		)
		report, err := pipe.Run(cmd.Context(), runConfig)
		if report != nil {
			printReport(report)
		}
		return err
	},
}

// newLogger builds the run logger; "prod" selects JSON output.
func newLogger(mode string) (*zap.Logger, error) {
	if mode == "prod" || mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// buildRunConfig assembles the pipeline configuration: history file
// paths, remote tables (Google Sheets when credentials are
// configured, a local XLSX workbook otherwise), archive settings, and
// the optional snapshot recorder.
func buildRunConfig(ctx context.Context, cfg *viper.Viper, logger *zap.Logger) (shopfeed.RunConfig, func(), error) {
	cleanup := func() {}

	productsPath, variantsPath, err := ensureDataDir(cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return shopfeed.RunConfig{}, cleanup, err
	}

	runConfig := shopfeed.RunConfig{
		FeedURLs:     cfg.GetStringSlice(cfgKeyFeeds),
		ProductsPath: productsPath,
		VariantsPath: variantsPath,
		ArchiveDir:   cfg.GetString(cfgKeyArchiveDir),
		Archive:      shopfeed.ParseCompressionType(cfg.GetString(cfgKeyArchive)),
	}

	productsTable, variantsTable, tablesCleanup, err := buildRemoteTables(ctx, cfg, logger)
	if err != nil {
		return shopfeed.RunConfig{}, cleanup, err
	}
	runConfig.ProductsTable = productsTable
	runConfig.VariantsTable = variantsTable

	if dbPath := cfg.GetString(cfgKeySnapshotDB); dbPath != "" {
		store, err := snapshot.Open(dbPath)
		if err != nil {
			tablesCleanup()
			return shopfeed.RunConfig{}, cleanup, err
		}
		runConfig.Recorder = store
		cleanup = func() {
			_ = store.Close()
			tablesCleanup()
		}
	} else {
		cleanup = tablesCleanup
	}
	return runConfig, cleanup, nil
}

// buildRemoteTables resolves the remote surface from configuration.
// Credentials are read once here and injected; nothing downstream
// consults the environment.
func buildRemoteTables(ctx context.Context, cfg *viper.Viper, logger *zap.Logger) (products, variants shopfeed.RemoteTable, cleanup func(), err error) {
	cleanup = func() {}

	creds := remote.Credentials{
		File: cfg.GetString(cfgKeyCredsFile),
		JSON: os.Getenv(envCredsJSON),
	}
	if creds.File != "" || creds.JSON != "" {
		service, err := remote.NewSheetsService(ctx, creds)
		if err != nil {
			return nil, nil, cleanup, err
		}
		products = remote.NewSheetsTable(service, cfg.GetString(cfgKeyProductsID), cfg.GetString(cfgKeyProductsTab))
		variants = remote.NewSheetsTable(service, cfg.GetString(cfgKeyVariantsID), cfg.GetString(cfgKeyVariantsTab))
		return products, variants, cleanup, nil
	}

	if path := cfg.GetString(cfgKeyXLSXPath); path != "" {
		workbook, err := remote.OpenWorkbook(path)
		if err != nil {
			return nil, nil, cleanup, err
		}
		productsTable, err := workbook.Table(cfg.GetString(cfgKeyProductsTab))
		if err != nil {
			_ = workbook.Close()
			return nil, nil, cleanup, err
		}
		variantsTable, err := workbook.Table(cfg.GetString(cfgKeyVariantsTab))
		if err != nil {
			_ = workbook.Close()
			return nil, nil, cleanup, err
		}
		cleanup = func() { _ = workbook.Close() }
		return productsTable, variantsTable, cleanup, nil
	}

	logger.Info("no remote surface configured, skipping sync")
	return nil, nil, cleanup, nil
}

func printReport(report *shopfeed.RunReport) {
	fmt.Printf("run %s: %d feeds fetched, %d failed, %d products, %d variants, %d records skipped\n",
		report.RunID, report.FeedsFetched, report.FeedsFailed,
		report.Products, report.Variants, report.SkippedRecords)
	for _, feedErr := range report.FeedErrors {
		fmt.Printf("  feed %s: %v\n", feedErr.URL, feedErr.Err)
	}
}
