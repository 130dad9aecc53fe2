// Package main provides the entry point for the user news ETL.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "news_etl",
	Short: "Personalized investment news for bank customers",
	Long: `news_etl reads customer identifiers from a CSV file, looks each one up in a
local cache of customer records, asks an LLM for a short message about investing,
and appends it to the customer's news feed.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
