// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xbrayo/whatdidyougetdone/internal/gateway"
	"github.com/0xbrayo/whatdidyougetdone/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report <username>",
	Short: "Generate activity report for a GitHub user",
	Long: `Generates a markdown activity digest for a single GitHub user: pull
requests and commits from the lookback window, deduplicated, grouped by
repository and sorted by recency, with fork-aware attribution.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		days, _ := cmd.Flags().GetInt("days")
		output, _ := cmd.Flags().GetString("output")

		token := mustToken()
		fetcher, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(fetcher, logger, viper.GetInt("workers"))

		entries, rels, err := aggregator.Collect(context.Background(), username, days)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch activity for %s: %v\n", username, err)
			os.Exit(1)
		}

		report := usecase.BuildReport(username, days, entries, rels)
		text := usecase.FormatReport(report)

		path := output
		if path == "" {
			path = defaultReportPath(username)
		}
		if err := writeReport(path, text); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to: %s\n", path)
		offerPreview(path)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Int("days", 7, "Number of days to look back")
	reportCmd.Flags().StringP("output", "o", "", "Output file (default: reports/<username>-<date>.md)")
}
