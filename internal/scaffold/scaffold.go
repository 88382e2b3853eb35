// Package scaffold creates a GitHub repository and seeds it with files.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/google/go-github/v72/github"
)

// Defaults used when neither flags nor config name a repository.
const (
	DefaultRepoName    = "python-datadog-monitoring-automation"
	DefaultDescription = "Automation for monitoring with Datadog using Python."
)

// DefaultFiles returns the starter layout for a monitoring automation repo.
func DefaultFiles() map[string]string {
	return map[string]string{
		"README.md":                  "# Python Datadog Monitoring Automation\n\nThis project automates monitoring checks using the Datadog API.",
		"requirements.txt":           "datadog\nPyYAML",
		"config/secrets.yaml":        "# Secrets file\napi_key: YOUR_API_KEY\napp_key: YOUR_APP_KEY\nslack_webhook: YOUR_WEBHOOK_URL",
		"scripts/monitor_checker.py": "# Main monitoring script\n\nprint('Running Datadog monitor check...')",
		"logs/execution.log":         "",
	}
}

// Spec describes the repository to create.
type Spec struct {
	Owner       string
	Name        string
	Description string
	Private     bool
	Files       map[string]string
}

// Result summarizes a scaffold run.
type Result struct {
	FullName     string   `json:"full_name"`
	URL          string   `json:"url,omitempty"`
	Created      bool     `json:"created"`
	FilesAdded   []string `json:"files_added"`
	FilesSkipped []string `json:"files_skipped,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// Scaffolder drives repository creation and prints progress to Out.
type Scaffolder struct {
	api API
	out io.Writer
}

// New returns a Scaffolder using api and writing progress to out.
func New(api API, out io.Writer) *Scaffolder {
	return &Scaffolder{api: api, out: out}
}

// Run ensures the repository exists and adds every file in sorted path order.
// A file that cannot be created is recorded and the run continues.
func (s *Scaffolder) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Name == "" {
		return nil, errors.New("repository name is required")
	}

	login, err := s.api.AuthenticatedLogin(ctx)
	if err != nil {
		return nil, err
	}
	owner := spec.Owner
	if owner == "" {
		owner = login
	}

	result := &Result{FullName: owner + "/" + spec.Name}

	repo, exists, err := s.api.GetRepo(ctx, owner, spec.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		fmt.Fprintf(s.out, "Repository '%s' already exists.\n", spec.Name)
	} else {
		org := ""
		if owner != login {
			org = owner
		}
		repo, err = s.api.CreateRepo(ctx, org, &github.Repository{
			Name:        github.Ptr(spec.Name),
			Description: github.Ptr(spec.Description),
			Private:     github.Ptr(spec.Private),
			AutoInit:    github.Ptr(false),
		})
		if err != nil {
			return nil, err
		}
		result.Created = true
		fmt.Fprintf(s.out, "Repository '%s' created.\n", spec.Name)
	}
	result.URL = repo.GetHTMLURL()

	for _, path := range sortedPaths(spec.Files) {
		err := s.api.CreateFile(ctx, owner, spec.Name, path, &github.RepositoryContentFileOptions{
			Message: github.Ptr("Add " + path),
			Content: []byte(spec.Files[path]),
		})
		switch {
		case errors.Is(err, ErrFileExists):
			slog.Warn("File already exists, skipping", "path", path)
			result.FilesSkipped = append(result.FilesSkipped, path)
		case err != nil:
			slog.Warn("Failed to add file", "path", path, "error", err)
			result.Errors = append(result.Errors, err.Error())
		default:
			result.FilesAdded = append(result.FilesAdded, path)
			fmt.Fprintf(s.out, "Added: %s\n", path)
		}
	}

	return result, nil
}

// Plan prints what Run would do without calling GitHub.
func Plan(out io.Writer, spec Spec) {
	visibility := "public"
	if spec.Private {
		visibility = "private"
	}
	owner := spec.Owner
	if owner == "" {
		owner = "<authenticated user>"
	}
	fmt.Fprintf(out, "Would create %s repository %s/%s\n", visibility, owner, spec.Name)
	for _, path := range sortedPaths(spec.Files) {
		fmt.Fprintf(out, "  %s (%d bytes)\n", path, len(spec.Files[path]))
	}
}

func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
