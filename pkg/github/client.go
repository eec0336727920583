// Package github talks to the GitHub REST API for provider-side repository
// creation. It wraps go-github behind a small client so the rest of the
// program never sees HTTP details.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub API base URL.
	DefaultBaseURL = "https://api.github.com"

	// TokenEnv is the environment variable consulted for a GitHub token.
	TokenEnv = "GITHUB_TOKEN"

	// AltTokenEnv is the repolift-specific environment variable for a token.
	AltTokenEnv = "REPOLIFT_GITHUB_TOKEN"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GitHub API. Tests point this at
// an httptest server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client (used with the VCR recorder).
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// Client is the GitHub API client used for repository creation.
type Client struct {
	token        string
	baseURL      string
	timeout      time.Duration
	httpClient   *http.Client
	githubClient *github.Client // lazy-loaded go-github client
}

// NewClient creates a new GitHub API client with the given token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromEnv creates a new client using a token from the environment.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		token = os.Getenv(AltTokenEnv)
	}
	if token == "" {
		return nil, fmt.Errorf("%s or %s environment variable is required", TokenEnv, AltTokenEnv)
	}

	return NewClient(token, opts...), nil
}

// GetToken returns the client's authentication token.
func (c *Client) GetToken() string {
	return c.token
}

// GitHubClient returns the underlying go-github client (lazy-loaded).
func (c *Client) GitHubClient() *github.Client {
	if c.githubClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
		var httpClient *http.Client
		if c.httpClient != nil {
			// Keep the caller's transport (e.g. a VCR recorder) underneath
			// the authenticating one.
			httpClient = &http.Client{
				Transport: &oauth2.Transport{Source: ts, Base: c.httpClient.Transport},
			}
		} else {
			httpClient = oauth2.NewClient(context.Background(), ts)
		}
		httpClient.Timeout = c.timeout

		c.githubClient = github.NewClient(httpClient)

		if c.baseURL != DefaultBaseURL && c.baseURL != "" {
			baseURL := c.baseURL
			// go-github requires a trailing slash on BaseURL.
			if baseURL[len(baseURL)-1] != '/' {
				baseURL += "/"
			}
			parsedURL, err := url.Parse(baseURL)
			if err != nil {
				parsedURL, _ = url.Parse(DefaultBaseURL + "/")
			}
			c.githubClient.BaseURL = parsedURL
		}
	}
	return c.githubClient
}
