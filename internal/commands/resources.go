package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/opskit/internal/aws"
	"github.com/ppiankov/opskit/internal/config"
	"github.com/ppiankov/opskit/internal/report"
	"github.com/spf13/cobra"
)

var resourcesFlags struct {
	regions     []string
	types       []string
	tags        []string
	outputDir   string
	concurrency int
	timeout     time.Duration
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Inventory tagged AWS resources across regions",
	Long: `List resources known to the Resource Groups Tagging API in every enabled
region, with their type and tags. Results are saved to a timestamped JSON file.

Narrow the scan with --type (e.g. ec2:instance, s3) and --tag Key=Value or
--tag Key to match any value.`,
	RunE: runResources,
}

func init() {
	resourcesCmd.Flags().StringSliceVar(&resourcesFlags.regions, "regions", nil, "Comma-separated region filter (default: all enabled regions)")
	resourcesCmd.Flags().StringSliceVar(&resourcesFlags.types, "type", nil, "Resource type filter (repeatable)")
	resourcesCmd.Flags().StringArrayVar(&resourcesFlags.tags, "tag", nil, "Tag filter Key=Value or Key (repeatable)")
	resourcesCmd.Flags().StringVar(&resourcesFlags.outputDir, "output-dir", ".", "Directory for the JSON inventory")
	resourcesCmd.Flags().IntVar(&resourcesFlags.concurrency, "concurrency", 4, "Regions scanned in parallel")
	resourcesCmd.Flags().DurationVar(&resourcesFlags.timeout, "timeout", 10*time.Minute, "Scan timeout")
}

func runResources(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	timeout := resourcesFlags.timeout
	if d := cfg.TimeoutDuration(); !cmd.Flags().Changed("timeout") && d > 0 {
		timeout = d
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	applyResourcesDefaults(cmd.Flags().Changed)

	client, err := newAWSClient(ctx)
	if err != nil {
		return err
	}

	regions, err := resolveRegions(ctx, client, resourcesFlags.regions)
	if err != nil {
		return enhanceError("resolve regions", err)
	}

	scanCfg := aws.ScanConfig{
		ResourceTypes: resourcesFlags.types,
		Tags:          config.ParseTags(resourcesFlags.tags),
	}
	scanner := aws.NewMultiRegionScanner(client, regions, resourcesFlags.concurrency, scanCfg, aws.TaggingScannerFactory)
	scanner.SetProgressFn(func(p aws.ScanProgress) {
		printResourceProgress(os.Stdout, p)
	})

	result, err := scanner.ScanAll(ctx)
	if err != nil {
		return enhanceError("scan tagged resources", err)
	}

	resources := result.Resources
	if resources == nil {
		resources = []aws.TaggedResource{}
	}
	path := filepath.Join(resourcesFlags.outputDir, report.TimestampedName("aws_resources", time.Now()))
	if err := report.SaveJSON(path, resources); err != nil {
		return err
	}

	fmt.Printf("\nResults saved to %s\n", path)
	fmt.Printf("Total resources found: %d\n", len(result.Resources))
	return nil
}

// printResourceProgress writes one block per region once the region is done,
// so concurrent regions never interleave their lines.
func printResourceProgress(w io.Writer, p aws.ScanProgress) {
	switch p.Message {
	case aws.ProgressFailed:
		fmt.Fprintf(w, "Scanning region: %s\n", p.Region)
		fmt.Fprintf(w, "Skipping region %s due to error: %v\n", p.Region, p.Err)
	case aws.ProgressFinished:
		fmt.Fprintf(w, "Scanning region: %s\n", p.Region)
		if p.Result != nil {
			printResources(w, p.Result.Resources)
		}
	}
}

func printResources(w io.Writer, resources []aws.TaggedResource) {
	for _, r := range resources {
		fmt.Fprintf(w, "➡ %s\n", r.ARN)
		fmt.Fprintf(w, "    Type: %s\n", r.Type)
		fmt.Fprintf(w, "    Tags: %s\n", formatTags(r.Tags))
	}
}

// formatTags renders tags as {k1: v1, k2: v2} in key order.
func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+tags[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// applyResourcesDefaults applies config file values to flags the user did not set.
func applyResourcesDefaults(changed func(name string) bool) {
	if !changed("type") && len(cfg.Resources.Types) > 0 {
		resourcesFlags.types = cfg.Resources.Types
	}
	if !changed("tag") && len(cfg.Resources.Tags) > 0 {
		resourcesFlags.tags = cfg.Resources.Tags
	}
	if !changed("output-dir") && cfg.OutputDir != "" {
		resourcesFlags.outputDir = cfg.OutputDir
	}
}
