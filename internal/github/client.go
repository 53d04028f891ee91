// Package github is a typed client for the GitHub REST API: repository
// provisioning writes plus the read endpoints the marketplace consumes.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "OpenForge/1.0"
	acceptV3       = "application/vnd.github.v3+json"
	// Topic updates still require the mercy-preview media type.
	acceptTopics = "application/vnd.github.mercy-preview+json"

	probeTimeout = 10 * time.Second
	callTimeout  = 30 * time.Second
)

// Client wraps the GitHub REST API. Write operations take the caller's token
// per call; read operations use the optional configured read token for
// higher rate limits.
type Client struct {
	baseURL     string
	readToken   string
	httpClient  *http.Client
	probeClient *http.Client
	limiter     *rate.Limiter
}

// NewClient builds a client. readToken may be empty; reads then go out
// unauthenticated at the lower anonymous quota.
func NewClient(readToken string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		readToken: readToken,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
		probeClient: &http.Client{
			Timeout: probeTimeout,
		},
		// Client-side throttle below GitHub's authenticated quota so a
		// burst of cache misses cannot trip upstream rate limiting.
		limiter: rate.NewLimiter(rate.Limit(8), 16),
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(readToken, baseURL string) *Client {
	c := NewClient(readToken)
	c.baseURL = baseURL
	return c
}

// Owner is the owning account of a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url,omitempty"`
	Type      string `json:"type,omitempty"`
}

// License is the license object GitHub attaches to repositories.
type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SpdxID string `json:"spdx_id"`
}

// Repository is the subset of the GitHub repository shape this platform
// consumes.
type Repository struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	HTMLURL         string   `json:"html_url"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	WatchersCount   int      `json:"watchers_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	Language        string   `json:"language"`
	License         *License `json:"license"`
	DefaultBranch   string   `json:"default_branch"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	Owner           Owner    `json:"owner"`
}

// SearchResult is a repository search response.
type SearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// Readme holds decoded README content.
type Readme struct {
	Content string
	HTMLURL string
}

// CheckTokenScope probes GET /user with the given token and reports whether
// the scope list grants repo. Scope is a property of the token value, so a
// fresh probe is issued for every token considered.
func (c *Client) CheckTokenScope(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token, acceptV3)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	return scopeListGrantsRepo(resp.Header.Get("X-OAuth-Scopes")), nil
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

type apiErrorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

// CreateRepository creates a repository for the token's user. The name is
// validated locally first so an invalid name never round-trips.
func (c *Client) CreateRepository(ctx context.Context, token, name, description string, private bool) (*Repository, error) {
	if !ValidateRepositoryName(name) {
		return nil, &APIError{
			Kind:    KindValidation,
			Message: "invalid repository name: must be 1-100 characters, alphanumeric with hyphens, underscores, or dots",
		}
	}

	payload := createRepoRequest{
		Name:        name,
		Description: description,
		Private:     private,
		AutoInit:    false, // seed files are created explicitly
	}

	body, status, err := c.do(ctx, http.MethodPost, "/user/repos", token, acceptV3, payload)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusCreated:
		var repo Repository
		if err := json.Unmarshal(body, &repo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return &repo, nil
	case http.StatusUnprocessableEntity:
		var apiResp apiErrorResponse
		_ = json.Unmarshal(body, &apiResp)
		for _, e := range apiResp.Errors {
			if e.Field == "name" {
				return nil, &APIError{Kind: KindNameConflict, StatusCode: status, Message: "repository name already exists"}
			}
		}
		msg := apiResp.Message
		if msg == "" {
			msg = "invalid repository data"
		}
		return nil, &APIError{Kind: KindValidation, StatusCode: status, Message: msg}
	case http.StatusForbidden:
		return nil, &APIError{Kind: KindScope, StatusCode: status, Message: "insufficient GitHub OAuth permissions: repo scope required"}
	case http.StatusUnauthorized:
		return nil, &APIError{Kind: KindUnauthorized, StatusCode: status, Message: "invalid or expired GitHub token"}
	default:
		return nil, &APIError{Kind: KindUpstream, StatusCode: status, Message: string(body)}
	}
}

type topicsRequest struct {
	Names []string `json:"names"`
}

// AddTopics replaces the repository's topic list. Callers treat failure as a
// non-fatal decoration miss.
func (c *Client) AddTopics(ctx context.Context, token, owner, repo string, topics []string) error {
	path := fmt.Sprintf("/repos/%s/%s/topics", owner, repo)
	body, status, err := c.do(ctx, http.MethodPut, path, token, acceptTopics, topicsRequest{Names: topics})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{Kind: KindUpstream, StatusCode: status, Message: string(body)}
	}
	return nil
}

type createFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// CreateFile commits a single file. Content is base64-encoded for transport.
func (c *Client) CreateFile(ctx context.Context, token, owner, repo, path, content, message string) error {
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	payload := createFileRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
	}

	body, status, err := c.do(ctx, http.MethodPut, apiPath, token, acceptV3, payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return &APIError{Kind: KindUpstream, StatusCode: status, Message: string(body)}
	}
	return nil
}

// SearchRepositories runs a repository search with the given query string.
func (c *Client) SearchRepositories(ctx context.Context, query string) (*SearchResult, error) {
	path := "/search/repositories?q=" + url.QueryEscape(query)
	body, status, err := c.do(ctx, http.MethodGet, path, c.readToken, acceptV3, nil)
	if err != nil {
		return nil, err
	}
	if err := readError(status, body); err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	body, status, err := c.do(ctx, http.MethodGet, path, c.readToken, acceptV3, nil)
	if err != nil {
		return nil, err
	}
	if err := readError(status, body); err != nil {
		return nil, err
	}

	var result Repository
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}

type readmeResponse struct {
	Content string `json:"content"`
	HTMLURL string `json:"html_url"`
}

// GetReadme fetches and decodes the repository README. ok=false means the
// repository has no README, which is a normal outcome.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (readme *Readme, ok bool, err error) {
	path := fmt.Sprintf("/repos/%s/%s/readme", owner, repo)
	body, status, err := c.do(ctx, http.MethodGet, path, c.readToken, acceptV3, nil)
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	if err := readError(status, body); err != nil {
		return nil, false, err
	}

	var resp readmeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	content := ""
	if resp.Content != "" {
		// GitHub wraps the base64 payload across lines.
		decoded, err := base64.StdEncoding.DecodeString(stripNewlines(resp.Content))
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode readme content: %w", err)
		}
		content = string(decoded)
	}

	return &Readme{Content: content, HTMLURL: resp.HTMLURL}, true, nil
}

// do issues one rate-limited request and returns the raw body and status.
// Transport failures come back as KindNetwork.
func (c *Client) do(ctx context.Context, method, path, token, accept string, payload any) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token, accept)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &APIError{Kind: KindNetwork, Message: err.Error()}
	}

	return body, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request, token, accept string) {
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
}

// readError maps read-path statuses onto the error taxonomy. A 403 on a read
// is interpreted as quota exhaustion.
func readError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusForbidden:
		return &APIError{Kind: KindRateLimited, StatusCode: status, Message: "GitHub API rate limit exceeded"}
	case status == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, StatusCode: status, Message: "not found"}
	default:
		return &APIError{Kind: KindUpstream, StatusCode: status, Message: string(body)}
	}
}

func scopeListGrantsRepo(header string) bool {
	for _, s := range strings.Split(header, ",") {
		if strings.TrimSpace(s) == "repo" {
			return true
		}
	}
	return false
}

func stripNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
