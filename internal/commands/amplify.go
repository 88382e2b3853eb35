package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ppiankov/opskit/internal/aws"
	"github.com/ppiankov/opskit/internal/report"
	"github.com/spf13/cobra"
)

const defaultAmplifyOutput = "aws_amplify_apps.json"

var amplifyFlags struct {
	regions     []string
	outputFile  string
	concurrency int
	timeout     time.Duration
}

var amplifyCmd = &cobra.Command{
	Use:   "amplify",
	Short: "List AWS Amplify apps across regions",
	Long: `List every AWS Amplify app in every enabled region. The result is printed
as JSON and saved to a file. A region that fails is reported and skipped.`,
	RunE: runAmplify,
}

func init() {
	amplifyCmd.Flags().StringSliceVar(&amplifyFlags.regions, "regions", nil, "Comma-separated region filter (default: all enabled regions)")
	amplifyCmd.Flags().StringVarP(&amplifyFlags.outputFile, "output", "o", defaultAmplifyOutput, "File to save results to")
	amplifyCmd.Flags().IntVar(&amplifyFlags.concurrency, "concurrency", 4, "Regions scanned in parallel")
	amplifyCmd.Flags().DurationVar(&amplifyFlags.timeout, "timeout", 10*time.Minute, "Scan timeout")
}

func runAmplify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	timeout := amplifyFlags.timeout
	if d := cfg.TimeoutDuration(); !cmd.Flags().Changed("timeout") && d > 0 {
		timeout = d
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := newAWSClient(ctx)
	if err != nil {
		return err
	}

	regions, err := resolveRegions(ctx, client, amplifyFlags.regions)
	if err != nil {
		return enhanceError("resolve regions", err)
	}

	scanner := aws.NewMultiRegionScanner(client, regions, amplifyFlags.concurrency, aws.ScanConfig{}, aws.AmplifyScannerFactory)
	result, err := scanner.ScanAll(ctx)
	if err != nil {
		return enhanceError("list Amplify apps", err)
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error in %s\n", e)
	}

	apps := sortApps(result.Apps)
	if err := report.WriteJSON(os.Stdout, apps); err != nil {
		return err
	}
	if err := report.SaveJSON(amplifyFlags.outputFile, apps); err != nil {
		return err
	}
	fmt.Printf("\nResults saved to %s\n", amplifyFlags.outputFile)
	return nil
}

// sortApps orders apps by region, then name. A nil input becomes an empty
// slice so the saved JSON is [] rather than null.
func sortApps(apps []aws.AmplifyApp) []aws.AmplifyApp {
	out := make([]aws.AmplifyApp, len(apps))
	copy(out, apps)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Name < out[j].Name
	})
	return out
}
