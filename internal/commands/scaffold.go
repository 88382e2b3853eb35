package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/opskit/internal/scaffold"
	"github.com/spf13/cobra"
)

var scaffoldFlags struct {
	token       string
	name        string
	owner       string
	description string
	private     bool
	dryRun      bool
	apiURL      string
	jsonOut     bool
	timeout     time.Duration
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Create a GitHub repository with a starter layout",
	Long: `Create a GitHub repository (or reuse an existing one with the same name)
and commit a starter file layout to it, one commit per file. Files that
already exist are skipped.

The token is read from --token or GITHUB_TOKEN, which may live in a .env
file. Files come from the github.files section of .opskit.yaml, or a default
monitoring automation layout.`,
	RunE: runScaffold,
}

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldFlags.token, "token", "", "GitHub token (default: $GITHUB_TOKEN)")
	scaffoldCmd.Flags().StringVar(&scaffoldFlags.name, "name", "", "Repository name")
	scaffoldCmd.Flags().StringVar(&scaffoldFlags.owner, "owner", "", "Organization to create the repository in (default: token owner)")
	scaffoldCmd.Flags().StringVar(&scaffoldFlags.description, "description", "", "Repository description")
	scaffoldCmd.Flags().BoolVar(&scaffoldFlags.private, "private", false, "Create a private repository")
	scaffoldCmd.Flags().BoolVar(&scaffoldFlags.dryRun, "dry-run", false, "Print the plan without calling GitHub")
	scaffoldCmd.Flags().StringVar(&scaffoldFlags.apiURL, "api-url", "", "GitHub API base URL (GitHub Enterprise)")
	scaffoldCmd.Flags().BoolVar(&scaffoldFlags.jsonOut, "json", false, "Print the result as JSON")
	scaffoldCmd.Flags().DurationVar(&scaffoldFlags.timeout, "timeout", 2*time.Minute, "Timeout for GitHub calls")
}

func runScaffold(cmd *cobra.Command, _ []string) error {
	spec := buildScaffoldSpec()
	if scaffoldFlags.dryRun {
		scaffold.Plan(os.Stdout, spec)
		return nil
	}

	token := scaffoldFlags.token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no GitHub token; set GITHUB_TOKEN or use --token")
	}

	ctx := cmd.Context()
	if scaffoldFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scaffoldFlags.timeout)
		defer cancel()
	}

	client, err := scaffold.NewClient(token, scaffoldFlags.apiURL)
	if err != nil {
		return err
	}

	progress := os.Stdout
	if scaffoldFlags.jsonOut {
		progress = os.Stderr
	}
	result, err := scaffold.New(client, progress).Run(ctx, spec)
	if err != nil {
		return enhanceError("scaffold repository", err)
	}

	if scaffoldFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed to upload", len(result.Errors))
	}
	return nil
}

// buildScaffoldSpec merges flags, config and defaults.
func buildScaffoldSpec() scaffold.Spec {
	gh := cfg.GitHub
	spec := scaffold.Spec{
		Owner:       firstNonEmpty(scaffoldFlags.owner, gh.Owner),
		Name:        firstNonEmpty(scaffoldFlags.name, gh.Repo, scaffold.DefaultRepoName),
		Description: firstNonEmpty(scaffoldFlags.description, gh.Description, scaffold.DefaultDescription),
		Private:     scaffoldFlags.private || gh.Private,
		Files:       gh.Files,
	}
	if len(spec.Files) == 0 {
		spec.Files = scaffold.DefaultFiles()
	}
	return spec
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
