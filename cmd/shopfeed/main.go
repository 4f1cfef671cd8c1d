// Package main provides the shopfeed CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopfeed",
	Short: "shopfeed tracks storefront product catalogs over time",
	Long: `shopfeed fetches JSON product feeds from configured storefronts,
flattens them into product and variant tables, appends the rows to
local history files, and mirrors the current snapshot into a shared
spreadsheet.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: shopfeed.yaml in the working directory)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shopfeed v0.1.0")
	},
}
