// Config loading for the shopfeed CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "shopfeed"
	configFileType = "yaml"

	cfgKeyFeeds       = "feeds"
	cfgKeyDataDir     = "data_dir"
	cfgKeyArchiveDir  = "archive_dir"
	cfgKeyArchive     = "archive"
	cfgKeySnapshotDB  = "snapshot_db"
	cfgKeyLogMode     = "log_mode"
	cfgKeyCredsFile   = "sheets.credentials_file"
	cfgKeyProductsID  = "sheets.products.spreadsheet_id"
	cfgKeyProductsTab = "sheets.products.sheet"
	cfgKeyVariantsID  = "sheets.variants.spreadsheet_id"
	cfgKeyVariantsTab = "sheets.variants.sheet"
	cfgKeyXLSXPath    = "xlsx.path"

	// envCredsJSON carries a raw service account key, the
	// environment-sourced alternative to a key file.
	envCredsJSON = "GSHEET_TOKEN"
)

// defaultFeeds are the storefront catalogs tracked when the config
// file lists none.
var defaultFeeds = []string{
	"https://ravecoffee.co.uk/products.json",
	"https://www.coffee-direct.co.uk/products.json",
	"https://bluetokaicoffee.com/products.json",
	"https://www.cworks.co.uk/products.json",
	"https://coffeebeanshop.co.uk/products.json",
	"https://www.origincoffee.co.uk/products.json",
	"https://kotacoffee.com/products.json",
	"https://www.goodlifecoffee.com/products.json",
	"https://workshopcoffee.com/products.json",
}

// loadConfig reads the YAML config with Viper. A missing config file
// is not an error; defaults carry the run.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFeeds, defaultFeeds)
	v.SetDefault(cfgKeyDataDir, "dataset")
	v.SetDefault(cfgKeyArchive, "none")
	v.SetDefault(cfgKeyLogMode, "dev")
	v.SetDefault(cfgKeyProductsTab, "Products")
	v.SetDefault(cfgKeyVariantsTab, "Variants")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDataDir creates the dataset directory if needed and returns
// the two history file paths.
func ensureDataDir(dataDir string) (productsPath, variantsPath string, err error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", "", fmt.Errorf("ensure data dir: %w", err)
	}
	return filepath.Join(dataDir, "products.csv"), filepath.Join(dataDir, "variants.csv"), nil
}
