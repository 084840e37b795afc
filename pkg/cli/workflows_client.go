package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/urunc-dev/urunc-workflows/pkg/constants"
	"github.com/urunc-dev/urunc-workflows/pkg/logger"
)

var workflowsClientLog = logger.New("cli:workflows_client")

// anonymousToken satisfies go-gh's requirement for a token when requests are
// meant to go out unauthenticated. anonymousTransport strips it again.
const anonymousToken = "anonymous"

// ClientOptions configures a WorkflowsClient.
type ClientOptions struct {
	// APIURL is the REST API base URL. Defaults to https://api.github.com.
	APIURL string
	// Auth sends the token resolved by the gh CLI (GH_TOKEN, GITHUB_TOKEN or
	// gh auth login). Requests are anonymous otherwise.
	Auth bool
	// Timeout bounds every request. Defaults to constants.FetchTimeout.
	Timeout time.Duration
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// WorkflowsClient reads workflow data from the GitHub Actions REST API.
type WorkflowsClient struct {
	rest    *api.RESTClient
	apiURL  string
	timeout time.Duration
}

// FetchError reports a failed workflow list request.
type FetchError struct {
	Owner string
	Repo  string
	// StatusCode is the HTTP status when the server answered, zero otherwise.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching workflows for %s/%s: %v", e.Owner, e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// anonymousTransport removes the Authorization header go-gh adds to every request.
type anonymousTransport struct {
	base http.RoundTripper
}

func (t anonymousTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		req = req.Clone(req.Context())
		req.Header.Del("Authorization")
	}
	return t.base.RoundTrip(req)
}

// NewWorkflowsClient creates a client for the Actions API.
func NewWorkflowsClient(opts ClientOptions) (*WorkflowsClient, error) {
	apiURL := strings.TrimSuffix(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = constants.DefaultAPIURL
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", opts.APIURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.FetchTimeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	host := apiHost(parsed)
	ghOpts := api.ClientOptions{
		Host:    host,
		Headers: map[string]string{"Accept": constants.GitHubAPIAcceptHeader},
		Timeout: timeout,
	}

	if opts.Auth {
		token, source := auth.TokenForHost(host)
		if token == "" {
			return nil, fmt.Errorf("no GitHub token found for %s: set GH_TOKEN or run 'gh auth login'", host)
		}
		workflowsClientLog.Printf("Using token from %s", source)
		ghOpts.AuthToken = token
		ghOpts.Transport = transport
	} else {
		ghOpts.AuthToken = anonymousToken
		ghOpts.Transport = anonymousTransport{base: transport}
	}

	rest, err := api.NewRESTClient(ghOpts)
	if err != nil {
		return nil, fmt.Errorf("cannot create GitHub client: %w", err)
	}

	workflowsClientLog.Printf("Created client: api=%s, host=%s, auth=%v, timeout=%s", apiURL, host, opts.Auth, timeout)
	return &WorkflowsClient{rest: rest, apiURL: apiURL, timeout: timeout}, nil
}

// apiHost maps an API URL to the host name go-gh uses for token lookup.
func apiHost(u *url.URL) string {
	if u.Host == "api.github.com" {
		return "github.com"
	}
	return u.Host
}

// FetchWorkflows returns the workflows of owner/repo. A response without a
// "workflows" array yields an empty slice. Any transport error, non-2xx status
// or undecodable body is returned as a *FetchError.
func (c *WorkflowsClient) FetchWorkflows(ctx context.Context, owner, repo string) ([]WorkflowRecord, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows", c.apiURL, url.PathEscape(owner), url.PathEscape(repo))
	workflowsClientLog.Printf("GET %s", endpoint)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp workflowsResponse
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		workflowsClientLog.Printf("Fetching workflows failed: %v", err)
		return nil, newFetchError(owner, repo, err)
	}

	if resp.Workflows == nil {
		return []WorkflowRecord{}, nil
	}
	workflowsClientLog.Printf("Fetched %d workflows (total_count=%d)", len(resp.Workflows), resp.TotalCount)
	return resp.Workflows, nil
}

func newFetchError(owner, repo string, err error) *FetchError {
	fetchErr := &FetchError{Owner: owner, Repo: repo, Err: err}
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		fetchErr.StatusCode = httpErr.StatusCode
	}
	return fetchErr
}
