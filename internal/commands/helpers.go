package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/opskit/internal/aws"
	"github.com/ppiankov/opskit/internal/report"
)

// enhanceError wraps an error with context and suggestions for common AWS and GitHub issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "failed to retrieve credentials"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedAccess"):
		hint = "Insufficient permissions. Apply the IAM policy from 'opskit init' to your role/user"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "Throttling"):
		hint = "AWS API rate limit hit. Retry with fewer regions or increase timeout"
	case strings.Contains(msg, "Bad credentials") || strings.Contains(msg, "401 "):
		hint = "GitHub token rejected. Set GITHUB_TOKEN (or --token) to a valid personal access token"
	case strings.Contains(msg, "API rate limit exceeded"):
		hint = "GitHub rate limit hit. Wait for the reset window or use an authenticated token"
	case strings.Contains(msg, "Resource not accessible by"):
		hint = "GitHub token lacks the 'repo' scope needed to create repositories and contents"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// resolveProfile returns the AWS profile from flag or config.
func resolveProfile() string {
	if profile != "" {
		return profile
	}
	return cfg.Profile
}

// newAWSClient builds an AWS client for the resolved profile and --region.
func newAWSClient(ctx context.Context) (*aws.Client, error) {
	client, err := aws.NewClient(ctx, resolveProfile(), region)
	if err != nil {
		return nil, enhanceError("initialize AWS client", err)
	}
	return client, nil
}

// regionLister is satisfied by *aws.Client.
type regionLister interface {
	ListEnabledRegions(ctx context.Context) ([]string, error)
}

// resolveRegions picks regions from the flag, then config, then the account's
// enabled regions.
func resolveRegions(ctx context.Context, lister regionLister, flagRegions []string) ([]string, error) {
	if len(flagRegions) > 0 {
		return flagRegions, nil
	}
	if len(cfg.Regions) > 0 {
		return cfg.Regions, nil
	}
	return lister.ListEnabledRegions(ctx)
}

// openOutput returns stdout, or a created file when path is set. The returned
// close func is always safe to call.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func selectReporter(format string, w io.Writer) (report.Reporter, error) {
	switch format {
	case "json":
		return &report.JSONReporter{Writer: w}, nil
	case "text":
		return &report.TextReporter{Writer: w}, nil
	case "sarif":
		return &report.SARIFReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use text, json, or sarif)", format)
	}
}
