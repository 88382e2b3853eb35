package commands

import (
	"log/slog"

	"github.com/ppiankov/opskit/internal/config"
	"github.com/ppiankov/opskit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	profile string
	region  string
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "opskit",
	Short: "opskit — operations toolkit for load tests, AWS inventory and repo bootstrap",
	Long: `opskit bundles small operational tools behind one binary.

It generates storefront load, analyzes Locust-style stats logs, lists AWS
Amplify apps and tagged resources across regions, and scaffolds GitHub
repositories with a starter file layout.

Settings come from flags, then .opskit.yaml, then built-in defaults.
Secrets such as GITHUB_TOKEN can be kept in a local .env file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		if err := config.LoadEnv("."); err != nil {
			slog.Warn("Failed to load .env file", "error", err)
		}
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS profile name")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region for single-region calls (default: from AWS config)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(loadtestCmd)
	rootCmd.AddCommand(amplifyCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
