package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample .opskit.yaml config file and an IAM policy JSON file covering the AWS calls opskit makes.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".opskit.yaml"
	policyPath := "opskit-policy.json"

	wroteConfig, err := writeIfNotExists(configPath, sampleConfig, initFlags.force)
	if err != nil {
		return err
	}
	wrotePolicy, err := writeIfNotExists(policyPath, sampleIAMPolicy, initFlags.force)
	if err != nil {
		return err
	}

	if wroteConfig || wrotePolicy {
		fmt.Printf("Created %s and %s\n", configPath, policyPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit .opskit.yaml to set hosts, regions and repository defaults")
		fmt.Println("  2. Apply opskit-policy.json to your AWS IAM role/user")
		fmt.Println("  3. Put GITHUB_TOKEN in .env if you use 'opskit scaffold'")
		fmt.Println("  4. Run: opskit loadtest, then opskit analyze")
	}
	return nil
}

// writeIfNotExists writes content to path unless it exists and force is off.
// Reports whether the file was written.
func writeIfNotExists(path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# opskit configuration
# Flags override these values; unset values fall back to built-in defaults.

# AWS profile (or set AWS_PROFILE env var)
# profile: default

# Regions for amplify and resources (default: all enabled regions)
# regions:
#   - us-east-1
#   - eu-west-1

# Analyze output format: text, json or sarif
format: text

# Timeout for AWS scans
timeout: 10m

# Directory for timestamped inventory files
# output_dir: reports

analyze:
  logfile: locust_logs_highload.txt
  top: 3
  # slow_threshold_ms: 500
  # max_failure_pct: 1.0

loadtest:
  # host: http://frontend.example.com
  # alb: storefront-alb
  users: 10
  spawn_rate: 1
  duration: 5m
  min_wait: 1s
  max_wait: 10s
  stats_interval: 30s
  # output: locust_logs_highload.txt

resources:
  # types:
  #   - ec2:instance
  #   - s3
  # tags:
  #   - "Environment=production"

github:
  # owner: my-org
  repo: python-datadog-monitoring-automation
  description: Automation for monitoring with Datadog using Python.
  private: false
  # files:
  #   README.md: "# My project"
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "OpskitReadOnly",
      "Effect": "Allow",
      "Action": [
        "amplify:ListApps",
        "tag:GetResources",
        "ec2:DescribeRegions",
        "elasticloadbalancing:DescribeLoadBalancers"
      ],
      "Resource": "*"
    },
    {
      "Sid": "OpskitPublishMetrics",
      "Effect": "Allow",
      "Action": [
        "cloudwatch:PutMetricData"
      ],
      "Resource": "*"
    }
  ]
}
`
