package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// RepositorySpec describes the repository to create. It is built once from
// operator input and never mutated.
type RepositorySpec struct {
	// Name is the repository name, without owner.
	Name string

	// Description is the optional repository description.
	Description string

	// Private makes the repository private instead of public.
	Private bool
}

// RemoteRepository is the created repository's addressing information.
type RemoteRepository struct {
	// CloneURL is the https endpoint used as the git remote.
	CloneURL string

	// HTMLURL is the repository's web page.
	HTMLURL string
}

// ProviderError is a repository-creation failure reported by the provider.
type ProviderError struct {
	// StatusCode is the HTTP status the provider answered with.
	StatusCode int

	// Message is the provider's own error message, or a generic fallback
	// when the response body carried none.
	Message string
}

// Error returns the error message.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("GitHub repository creation failed (status %d): %s", e.StatusCode, e.Message)
}

// CreateRepository creates a repository under the authenticated account.
//
// It issues exactly one create call: repository creation is not idempotent
// (a second call with the same name fails), so there are no retries and the
// caller surfaces the error and stops. The remote is created empty
// (auto_init=false); the local push supplies the initial history.
func (c *Client) CreateRepository(ctx context.Context, spec RepositorySpec) (*RemoteRepository, error) {
	repo := &github.Repository{
		Name:        github.Ptr(spec.Name),
		Description: github.Ptr(spec.Description),
		Private:     github.Ptr(spec.Private),
		AutoInit:    github.Ptr(false),
	}

	created, resp, err := c.GitHubClient().Repositories.Create(ctx, "", repo)
	if err != nil {
		return nil, asProviderError(err, resp)
	}
	if resp == nil || resp.StatusCode != http.StatusCreated {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, &ProviderError{StatusCode: status, Message: "repository was not created"}
	}

	remote := &RemoteRepository{
		CloneURL: created.GetCloneURL(),
		HTMLURL:  created.GetHTMLURL(),
	}
	if remote.CloneURL == "" || remote.HTMLURL == "" {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    "response is missing clone_url or html_url",
		}
	}

	return remote, nil
}

// asProviderError maps a go-github error into a *ProviderError carrying the
// provider's status code and message.
func asProviderError(err error, resp *github.Response) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		status := 0
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		message := ghErr.Message
		if message == "" {
			message = "unknown error"
		}
		// Field-level validation details ride along when present.
		for _, fieldErr := range ghErr.Errors {
			if fieldErr.Message != "" {
				message = fmt.Sprintf("%s: %s", message, fieldErr.Message)
				break
			}
		}
		return &ProviderError{StatusCode: status, Message: message}
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return &ProviderError{StatusCode: status, Message: err.Error()}
}
