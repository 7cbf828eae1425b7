package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"

	"github.com/drydock-io/refit"
)

// defaultBaseURL is used for pipeline URL synthesis when no base URL is
// configured.
const defaultBaseURL = "https://gitlab.com"

// GitLabClient implements refit.MirrorClient against the GitLab REST API.
type GitLabClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// GitLabOption configures a GitLabClient.
type GitLabOption func(*GitLabClient)

// WithHTTPClient sets the underlying HTTP client. This is primarily used
// for testing against httptest servers.
func WithHTTPClient(client *http.Client) GitLabOption {
	return func(c *GitLabClient) {
		c.httpClient = client
	}
}

// NewGitLabClient creates a GitLab mirror client. baseURL overrides the
// instance URL for self-hosted GitLab or test servers; empty means
// gitlab.com. A missing token is not an error until a call is made, so the
// workflow ledger can attribute it to the failing step.
func NewGitLabClient(token, baseURL string, opts ...GitLabOption) *GitLabClient {
	c := &GitLabClient{
		token:   token,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureProject implements refit.MirrorClient. An existing project is a
// no-op; a 404 triggers creation under the project path's namespace, and a
// 409 from creation counts as success (already created concurrently).
func (c *GitLabClient) EnsureProject(ctx context.Context, mirror refit.MirrorSpec) error {
	if c.token == "" {
		return refit.Validationf("gitlab token is required")
	}
	projectPath := strings.TrimSpace(mirror.ProjectPath)
	if projectPath == "" {
		return refit.Validationf("mirror project_path is required")
	}

	client, err := c.newClient()
	if err != nil {
		return &refit.TransportError{Op: "gitlab client setup", Err: err}
	}

	_, resp, err := client.Projects.GetProject(projectPath, nil, gitlab.WithContext(ctx))
	if err == nil {
		return nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return gitlabError("gitlab get project", resp, err)
	}

	namespace, name, err := SplitProjectPath(projectPath)
	if err != nil {
		return err
	}
	createOpts := &gitlab.CreateProjectOptions{
		Name: gitlab.Ptr(name),
		Path: gitlab.Ptr(name),
	}
	if namespace != "" {
		id, err := c.resolveNamespaceID(ctx, client, namespace)
		if err != nil {
			return err
		}
		createOpts.NamespaceID = gitlab.Ptr(id)
	}

	_, resp, err = client.Projects.CreateProject(createOpts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil
		}
		return gitlabError("gitlab create project", resp, err)
	}
	return nil
}

// TriggerPipeline implements refit.MirrorClient. It prefers the pipeline's
// reported web URL and falls back to synthesizing one from the base URL,
// project path, and pipeline id.
func (c *GitLabClient) TriggerPipeline(ctx context.Context, mirror refit.MirrorSpec, branch string) (string, error) {
	if c.token == "" {
		return "", refit.Validationf("gitlab token is required")
	}
	projectPath := strings.TrimSpace(mirror.ProjectPath)
	if projectPath == "" {
		return "", refit.Validationf("mirror project_path is required")
	}
	ref := mirror.PipelineRef
	if ref == "" {
		ref = branch
	}

	client, err := c.newClient()
	if err != nil {
		return "", &refit.TransportError{Op: "gitlab client setup", Err: err}
	}

	pipeline, resp, err := client.Pipelines.CreatePipeline(projectPath,
		&gitlab.CreatePipelineOptions{Ref: gitlab.Ptr(ref)}, gitlab.WithContext(ctx))
	if err != nil {
		return "", gitlabError("gitlab trigger pipeline", resp, err)
	}

	if pipeline.WebURL != "" {
		return pipeline.WebURL, nil
	}
	if pipeline.ID != 0 {
		base := c.baseURL
		if base == "" {
			base = defaultBaseURL
		}
		return fmt.Sprintf("%s/%s/-/pipelines/%d", strings.TrimSuffix(base, "/"), projectPath, pipeline.ID), nil
	}
	return "", &refit.TransportError{Op: "gitlab trigger pipeline", Body: "response missing web_url"}
}

func (c *GitLabClient) resolveNamespaceID(ctx context.Context, client *gitlab.Client, namespace string) (int, error) {
	namespaces, resp, err := client.Namespaces.ListNamespaces(
		&gitlab.ListNamespacesOptions{Search: gitlab.Ptr(namespace)}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, gitlabError("gitlab search namespaces", resp, err)
	}
	for _, candidate := range namespaces {
		if candidate.FullPath == namespace {
			return candidate.ID, nil
		}
	}
	return 0, &refit.TransportError{Op: "gitlab search namespaces", Body: "namespace not found: " + namespace}
}

func (c *GitLabClient) newClient() (*gitlab.Client, error) {
	opts := []gitlab.ClientOptionFunc{}
	if c.baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(c.baseURL))
	}
	if c.httpClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(c.httpClient))
	}
	return gitlab.NewClient(c.token, opts...)
}

// SplitProjectPath splits "namespace/name" into its parts. The namespace is
// optional; an empty project name is a validation error.
func SplitProjectPath(projectPath string) (namespace, name string, err error) {
	trimmed := strings.Trim(strings.TrimSpace(projectPath), "/")
	if trimmed == "" {
		return "", "", refit.Validationf("mirror project_path is required")
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", trimmed, nil
	}
	namespace = strings.Trim(trimmed[:idx], "/")
	name = strings.TrimSpace(trimmed[idx+1:])
	if name == "" {
		return "", "", refit.Validationf("mirror project_path missing project name")
	}
	return namespace, name, nil
}

// gitlabError maps a go-gitlab failure to a TransportError carrying the
// HTTP status and response message when available.
func gitlabError(op string, resp *gitlab.Response, err error) error {
	te := &refit.TransportError{Op: op, Err: err}
	if resp != nil {
		te.Status = resp.StatusCode
	}
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Message != "" {
		te.Body = errResp.Message
		te.Err = nil
	}
	return te
}
