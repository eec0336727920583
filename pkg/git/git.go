// Package git wraps the system git binary with the operations the publish
// pipeline needs. Every call shells out to git so the behavior matches what
// an operator would get running the same commands by hand; command output is
// folded verbatim into returned errors.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client runs git commands against a single working directory.
type Client struct {
	// Dir is the working directory of the git repository.
	Dir string

	// Options provides optional git configuration.
	Options *ClientOptions
}

// ClientOptions holds configuration for git operations.
type ClientOptions struct {
	// Quiet suppresses output from git commands that support --quiet.
	Quiet bool
}

// DefaultClientOptions returns the default client options.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{Quiet: true}
}

// NewClient creates a new git client for the given directory.
func NewClient(dir string) *Client {
	return &Client{Dir: dir, Options: DefaultClientOptions()}
}

// execCommand executes a git command in the client directory. The combined
// stdout+stderr is returned; on failure it is also embedded in the error so
// callers can surface git's own diagnostic text.
func (c *Client) execCommand(ctx context.Context, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-C", c.Dir}, args...)

	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return output, nil
}

// ExecCommand is a safe wrapper to allow callers to run arbitrary git commands.
func (c *Client) ExecCommand(ctx context.Context, args ...string) ([]byte, error) {
	return c.execCommand(ctx, args...)
}

func (c *Client) quietFlag() string {
	if c.Options != nil && c.Options.Quiet {
		return "--quiet"
	}
	return ""
}

// IsRepo reports whether the client directory is inside a git working tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.execCommand(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Init initializes a new git repository in the client directory.
func (c *Client) Init(ctx context.Context) error {
	args := []string{"init"}
	if q := c.quietFlag(); q != "" {
		args = append(args, q)
	}
	_, err := c.execCommand(ctx, args...)
	return err
}

// SetRemote ensures that a remote with the given name points to the provided
// URL. If the remote already exists, its URL is updated; otherwise it is
// created. Repeated calls with the same arguments are no-ops.
func (c *Client) SetRemote(ctx context.Context, name, url string) error {
	output, err := c.execCommand(ctx, "remote")
	if err != nil {
		return fmt.Errorf("failed to list git remotes: %w", err)
	}

	exists := false
	for _, remote := range strings.Fields(string(output)) {
		if remote == name {
			exists = true
			break
		}
	}

	if exists {
		if _, err := c.execCommand(ctx, "remote", "set-url", name, url); err != nil {
			return fmt.Errorf("failed to set remote %s to %s: %w", name, url, err)
		}
		return nil
	}

	if _, err := c.execCommand(ctx, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s with URL %s: %w", name, url, err)
	}
	return nil
}

// RemoteURL returns the URL configured for the named remote, or an error if
// the remote does not exist.
func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := c.execCommand(ctx, "remote", "get-url", name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ConfigGet gets a local git configuration value. A missing key is returned
// as an empty string with a nil error so callers can distinguish "unset"
// from a real failure.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	cmdArgs := []string{"-C", c.Dir, "config", "--get", key}
	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	output, err := cmd.Output()
	if err != nil {
		// git config --get exits 1 when the key is unset.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config --get %s failed: %w", key, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// SetConfig sets a local git configuration value.
func (c *Client) SetConfig(ctx context.Context, key, value string) error {
	_, err := c.execCommand(ctx, "config", key, value)
	return err
}

// EnsureIdentity sets user.name and user.email to the given values when they
// are not already configured. An existing identity is never overwritten.
func (c *Client) EnsureIdentity(ctx context.Context, name, email string) error {
	current, err := c.ConfigGet(ctx, "user.name")
	if err != nil {
		return err
	}
	if current == "" {
		if err := c.SetConfig(ctx, "user.name", name); err != nil {
			return fmt.Errorf("failed to set user.name: %w", err)
		}
	}

	current, err = c.ConfigGet(ctx, "user.email")
	if err != nil {
		return err
	}
	if current == "" {
		if err := c.SetConfig(ctx, "user.email", email); err != nil {
			return fmt.Errorf("failed to set user.email: %w", err)
		}
	}

	return nil
}

// AddAll stages every file under the client directory.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.execCommand(ctx, "add", ".")
	return err
}

// Unstage removes a single path from the index without touching the working
// tree. It must work before the first commit exists, where `git reset HEAD`
// cannot resolve, so it uses `git rm --cached` instead.
func (c *Client) Unstage(ctx context.Context, relPath string) error {
	_, err := c.execCommand(ctx, "rm", "--cached", "--ignore-unmatch", "-q", "--", relPath)
	return err
}

// Commit creates a commit with the given message and returns its SHA.
// An empty index ("nothing to commit") is reported as an error.
func (c *Client) Commit(ctx context.Context, message string) (string, error) {
	if _, err := c.execCommand(ctx, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("commit failed: %w", err)
	}
	return c.HeadSHA(ctx)
}

// HeadSHA returns the current HEAD commit SHA.
func (c *Client) HeadSHA(ctx context.Context) (string, error) {
	output, err := c.execCommand(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD SHA: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the current branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	output, err := c.execCommand(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateBranch creates a new branch with the given name and switches to it.
func (c *Client) CreateBranch(ctx context.Context, name string) error {
	args := []string{"checkout"}
	if q := c.quietFlag(); q != "" {
		args = append(args, q)
	}
	args = append(args, "-b", name)
	_, err := c.execCommand(ctx, args...)
	return err
}

// PushOptions specifies options for pushing to a remote.
type PushOptions struct {
	// Remote is the remote name (default: "origin").
	Remote string

	// Branch is the branch to push.
	Branch string

	// SetUpstream sets the upstream tracking reference.
	SetUpstream bool
}

// Push pushes the given branch to a remote.
// Note: this requires git credentials to be available for authentication.
func (c *Client) Push(ctx context.Context, opts PushOptions) error {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Branch == "" {
		return fmt.Errorf("branch name is required for push")
	}

	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	args = append(args, opts.Remote, opts.Branch)

	if _, err := c.execCommand(ctx, args...); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}
