// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xbrayo/whatdidyougetdone/internal/config"
)

// logger is shared by every command and injected into the gateway and
// usecase layers. Default level is Warn; --verbose raises it to Debug.
var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "whatdidyougetdone",
	Short: "What did you get done? - Activity report generator",
	Long: `whatdidyougetdone turns a GitHub user's event feed into a deduplicated,
human-readable activity digest for a time window. It filters noise (merge
commits, co-authored duplicates, work already visible through a fork's
parent) and renders a per-repository markdown summary.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initSettings)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
}

// initSettings loads the optional config.yaml from the config directory.
// Only tuning knobs live there; the credential has its own resolution path
// in the config package.
func initSettings() {
	viper.SetDefault("workers", 5)
	viper.SetDefault("reports_dir", "reports")
	if dir, err := config.Dir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	_ = viper.ReadInConfig()
}
