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

var teamCmd = &cobra.Command{
	Use:   "team <username>...",
	Short: "Generate team activity report",
	Long: `Generates a combined digest for several GitHub users: per-user commit and
pull request counts followed by a flat chronological activity list.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")

		token := mustToken()
		fetcher, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(fetcher, logger, viper.GetInt("workers"))

		var members []usecase.TeamMember
		for _, username := range args {
			entries, _, err := aggregator.Collect(context.Background(), username, days)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to fetch activity for %s: %v\n", username, err)
				os.Exit(1)
			}
			members = append(members, usecase.BuildTeamMember(username, entries))
		}

		text := usecase.FormatTeamReport(days, members)
		path := defaultReportPath("team")
		if err := writeReport(path, text); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Team report saved to: %s\n", path)
		offerPreview(path)
	},
}

func init() {
	rootCmd.AddCommand(teamCmd)
	teamCmd.Flags().Int("days", 7, "Number of days to look back")
}
