package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v72/github"
)

// ErrFileExists is returned by CreateFile when the path already exists.
var ErrFileExists = errors.New("file already exists")

// API is the minimal set of GitHub operations the scaffolder needs.
type API interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
	GetRepo(ctx context.Context, owner, name string) (*github.Repository, bool, error)
	CreateRepo(ctx context.Context, org string, repo *github.Repository) (*github.Repository, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) error
}

// Client implements API on top of go-github.
type Client struct {
	gh *github.Client
}

// NewClient returns a client authenticated with token. baseURL overrides the
// API endpoint (GitHub Enterprise or tests); empty means api.github.com.
func NewClient(token, baseURL string) (*Client, error) {
	gh := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base URL %s: %w", baseURL, err)
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh}, nil
}

// AuthenticatedLogin returns the login of the token owner.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// GetRepo looks up owner/name. A missing repository is reported as (nil, false, nil).
func (c *Client) GetRepo(ctx context.Context, owner, name string) (*github.Repository, bool, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}
	return repo, true, nil
}

// CreateRepo creates a repository for the authenticated user, or in org when set.
func (c *Client) CreateRepo(ctx context.Context, org string, repo *github.Repository) (*github.Repository, error) {
	created, _, err := c.gh.Repositories.Create(ctx, org, repo)
	if err != nil {
		return nil, fmt.Errorf("create repository %s: %w", repo.GetName(), err)
	}
	return created, nil
}

// CreateFile commits a new file. Returns ErrFileExists when GitHub rejects the
// path as already present.
func (c *Client) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) error {
	_, resp, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return fmt.Errorf("create %s: %w", path, ErrFileExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}
