// Package publish implements the repository-publish pipeline: take a local
// directory, bring it under git control, and push it to a freshly created
// remote. The pipeline is strictly ordered; the early stages are idempotent
// so a failed publish can be re-run against the same directory.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/repolift/repolift/pkg/git"
	"github.com/repolift/repolift/pkg/log"
)

const (
	// DefaultRemote is the remote name the pipeline configures.
	DefaultRemote = "origin"

	// DefaultCommitMessage is used when no message is configured.
	DefaultCommitMessage = "Initial commit from repolift"

	// DefaultCommitterName is the placeholder identity set when none exists.
	DefaultCommitterName = "Repolift Publisher"

	// DefaultCommitterEmail is the placeholder email set when none exists.
	DefaultCommitterEmail = "publisher@repolift.dev"

	// DefaultCredentialUsername is the service-account-style username the
	// credential is registered under.
	DefaultCredentialUsername = "x-access-token"
)

// DefaultBranchNames are the conventional default branch names. A requested
// branch outside this set is created with checkout -b; a branch inside it is
// assumed to be the branch git init put us on.
var DefaultBranchNames = []string{"main", "master"}

// Options configures the pipeline. Zero values fall back to the defaults
// above, so Options{} is usable as-is.
type Options struct {
	// Remote is the remote name to configure and push to.
	Remote string

	// CommitMessage is the message for the single commit.
	CommitMessage string

	// CommitterName and CommitterEmail are placeholder identity values,
	// applied only when the repository has none configured.
	CommitterName  string
	CommitterEmail string

	// CredentialUsername is the username the token is registered under.
	CredentialUsername string

	// DefaultBranches overrides the conventional default branch name set.
	DefaultBranches []string
}

func (o Options) withDefaults() Options {
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.CommitMessage == "" {
		o.CommitMessage = DefaultCommitMessage
	}
	if o.CommitterName == "" {
		o.CommitterName = DefaultCommitterName
	}
	if o.CommitterEmail == "" {
		o.CommitterEmail = DefaultCommitterEmail
	}
	if o.CredentialUsername == "" {
		o.CredentialUsername = DefaultCredentialUsername
	}
	if len(o.DefaultBranches) == 0 {
		o.DefaultBranches = DefaultBranchNames
	}
	return o
}

// Publisher runs the publish pipeline against a local directory.
type Publisher struct {
	opts Options

	// newGit builds the VCS adapter for a directory. Tests swap in a fake.
	newGit func(dir string) GitPort

	// executable resolves this program's own binary path for the
	// self-exclusion guard. Tests override it.
	executable func() (string, error)
}

// NewPublisher creates a publisher backed by the system git binary.
func NewPublisher(opts Options) *Publisher {
	return &Publisher{
		opts:       opts.withDefaults(),
		newGit:     func(dir string) GitPort { return git.NewClient(dir) },
		executable: os.Executable,
	}
}

// NewPublisherWithPort creates a publisher with a custom VCS adapter factory.
func NewPublisherWithPort(opts Options, newGit func(dir string) GitPort) *Publisher {
	p := NewPublisher(opts)
	p.newGit = newGit
	return p
}

// Validate checks the target before any side effect is performed.
func (p *Publisher) Validate(target Target, remote Remote) error {
	if target.Dir == "" {
		return fmt.Errorf("target directory must be set")
	}
	if !filepath.IsAbs(target.Dir) {
		return fmt.Errorf("target directory must be absolute: %s", target.Dir)
	}
	info, err := os.Stat(target.Dir)
	if err != nil {
		return fmt.Errorf("target directory is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target is not a directory: %s", target.Dir)
	}
	if target.Branch == "" {
		return fmt.Errorf("branch name must be set")
	}
	if remote.CloneURL == "" {
		return fmt.Errorf("remote clone URL must be set")
	}
	return nil
}

// Publish runs the full pipeline and returns what it did. Any error is a
// *StageError naming the failed stage; the stages before commit are
// idempotent, so re-running after a failure is safe.
func (p *Publisher) Publish(ctx context.Context, target Target, remote Remote) (*Result, error) {
	if err := p.Validate(target, remote); err != nil {
		return nil, stageErr(StageInit, err)
	}

	g := p.newGit(target.Dir)
	result := &Result{}

	// Stage 1: ensure the directory is a working tree.
	if g.IsRepo(ctx) {
		log.Debug("directory is already a git repository", "dir", target.Dir)
		result.add("repo_exists", "Git repository already initialized")
	} else {
		if err := g.Init(ctx); err != nil {
			return nil, stageErr(StageInit, err)
		}
		log.Info("initialized git repository", "dir", target.Dir)
		result.add("repo_initialized", "Initialized git repository")
	}

	// Stage 2: ensure the remote points at the clone endpoint. An existing
	// remote of the same name is rewritten, never treated as a failure.
	if err := g.SetRemote(ctx, p.opts.Remote, remote.CloneURL); err != nil {
		return nil, stageErr(StageRemote, err)
	}
	result.add("remote_configured", fmt.Sprintf("Remote %q set to %s", p.opts.Remote, remote.CloneURL))

	// Stage 3: ensure a committer identity exists. An already-configured
	// identity is left alone.
	if err := g.EnsureIdentity(ctx, p.opts.CommitterName, p.opts.CommitterEmail); err != nil {
		return nil, stageErr(StageIdentity, err)
	}

	// Stage 4: stage everything.
	if err := g.AddAll(ctx); err != nil {
		return nil, stageErr(StageStage, err)
	}
	result.add("staged", "Staged all files")

	// Stage 5: never commit the running binary. The tool is commonly run
	// from inside the directory it publishes.
	if rel, ok := p.selfPathWithin(target.Dir); ok {
		if err := g.Unstage(ctx, rel); err != nil {
			return nil, stageErr(StageGuard, err)
		}
		log.Warn("excluded this executable from the commit", "path", rel)
		result.add("self_excluded", fmt.Sprintf("Unstaged %s", rel))
	}

	// Stage 6: commit. Nothing-to-commit is a hard failure like any other
	// commit error; a first publish is expected to have content.
	sha, err := g.Commit(ctx, p.opts.CommitMessage)
	if err != nil {
		return nil, stageErr(StageCommit, err)
	}
	result.CommitSHA = sha
	result.add("committed", fmt.Sprintf("Committed changes: %s", sha))

	// Stage 7: branch selection. Conventional default names stay on the
	// branch git init created; anything else gets a new branch.
	if !p.isDefaultBranch(target.Branch) {
		if err := g.CreateBranch(ctx, target.Branch); err != nil {
			return nil, stageErr(StageBranch, err)
		}
		log.Info("created branch", "branch", target.Branch)
		result.add("created_branch", fmt.Sprintf("Created and switched to branch %q", target.Branch))
	}

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		return nil, stageErr(StageBranch, err)
	}
	result.Branch = branch

	// Stage 8: register the credential with git's transient cache right
	// before the push. The cache owns its lifetime. Failure is non-fatal:
	// the push may then prompt interactively.
	p.registerCredential(ctx, g, target, remote, result)

	// Stage 9: push with upstream tracking. The terminal stage; the one
	// failure an operator retries without redoing the rest.
	if err := g.Push(ctx, git.PushOptions{
		Remote:      p.opts.Remote,
		Branch:      branch,
		SetUpstream: true,
	}); err != nil {
		return nil, stageErr(StagePush, err)
	}
	log.Info("pushed branch", "remote", p.opts.Remote, "branch", branch)
	result.add("pushed", fmt.Sprintf("Pushed %s to %s with upstream tracking", branch, p.opts.Remote))

	result.PublishedAt = time.Now()
	return result, nil
}

// registerCredential scopes the token to (https, host, username) in git's
// credential cache. Skipped for non-https endpoints and empty tokens.
func (p *Publisher) registerCredential(ctx context.Context, g GitPort, target Target, remote Remote, result *Result) {
	if target.Token == "" {
		return
	}

	endpoint, err := url.Parse(remote.CloneURL)
	if err != nil || endpoint.Scheme != "https" || endpoint.Host == "" {
		log.Debug("skipping credential registration for non-https remote", "url", remote.CloneURL)
		return
	}

	cred := git.Credential{
		Protocol: "https",
		Host:     endpoint.Host,
		Username: p.opts.CredentialUsername,
		Secret:   target.Token,
	}
	if err := g.ApproveCredential(ctx, cred); err != nil {
		log.Warn("failed to register credential; git may prompt for credentials", "host", endpoint.Host, "error", err)
		result.add("credential_warning", "Credential registration failed; push may prompt interactively")
		return
	}

	result.add("credential_registered", fmt.Sprintf("Registered credential for https://%s", endpoint.Host))
}

// selfPathWithin reports whether this program's executable lives under dir,
// returning its dir-relative path.
func (p *Publisher) selfPathWithin(dir string) (string, bool) {
	exe, err := p.executable()
	if err != nil {
		log.Warn("could not resolve own executable path; skipping self-exclusion guard", "error", err)
		return "", false
	}

	absExe, err := filepath.Abs(exe)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(absExe)
	if err != nil || info.IsDir() {
		return "", false
	}

	rel, err := filepath.Rel(dir, absExe)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", false
	}
	return rel, true
}

func (p *Publisher) isDefaultBranch(name string) bool {
	for _, def := range p.opts.DefaultBranches {
		if name == def {
			return true
		}
	}
	return false
}

func (r *Result) add(actionType, description string) {
	r.Actions = append(r.Actions, Action{Type: actionType, Description: description})
}
