package pr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/drydock-io/refit"
)

// GitHubClient implements refit.HostClient against the GitHub REST API.
type GitHubClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// GitHubOption configures a GitHubClient.
type GitHubOption func(*GitHubClient)

// WithHTTPClient sets the underlying HTTP client. This is primarily used
// for testing against httptest servers.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(c *GitHubClient) {
		c.httpClient = client
	}
}

// NewGitHubClient creates a GitHub host client. baseURL overrides the API
// endpoint for GitHub Enterprise or test servers; empty means github.com.
// A missing token is not an error until OpenPR is called, so the workflow
// ledger can attribute it to the open_pr step.
func NewGitHubClient(token, baseURL string, opts ...GitHubOption) *GitHubClient {
	c := &GitHubClient{
		token:   token,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenPR implements refit.HostClient. It parses the repository URL into
// owner/name, submits the pull request, and returns the created PR's web
// URL.
func (c *GitHubClient) OpenPR(ctx context.Context, repo refit.RepoSpec, pr refit.PullRequestSpec, branch string) (string, error) {
	if c.token == "" {
		return "", refit.Validationf("github token is required")
	}
	owner, name, err := ParseRepoURL(repo.RepoURL)
	if err != nil {
		return "", err
	}

	client, err := c.newClient(ctx)
	if err != nil {
		return "", &refit.TransportError{Op: "github client setup", Err: err}
	}

	newPR := &github.NewPullRequest{
		Title: github.String(pr.Title),
		Head:  github.String(branch),
		Base:  github.String(repo.BaseBranch),
		Body:  github.String(pr.Body),
		Draft: github.Bool(pr.Draft),
	}
	created, resp, err := client.PullRequests.Create(ctx, owner, name, newPR)
	if err != nil {
		return "", githubError("github create pull request", resp, err)
	}

	htmlURL := created.GetHTMLURL()
	if htmlURL == "" {
		return "", &refit.TransportError{Op: "github create pull request", Body: "response missing html_url"}
	}
	return htmlURL, nil
}

func (c *GitHubClient) newClient(ctx context.Context) (*github.Client, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if c.baseURL == "" {
		return client, nil
	}
	base := strings.TrimSuffix(c.baseURL, "/") + "/"
	return client.WithEnterpriseURLs(base, base)
}

// githubError maps a go-github failure to a TransportError carrying the
// HTTP status and response body when available.
func githubError(op string, resp *github.Response, err error) error {
	te := &refit.TransportError{Op: op, Err: err}
	if resp != nil {
		te.Status = resp.StatusCode
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		te.Body = errResp.Message
		te.Err = nil
		if te.Body == "" {
			te.Err = err
		}
	}
	return te
}
