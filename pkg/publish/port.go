package publish

import (
	"context"

	"github.com/repolift/repolift/pkg/git"
)

// GitPort abstracts the local version-control operations the pipeline needs.
// Production code uses *git.Client, which shells out to the system git;
// tests use a scripted fake.
type GitPort interface {
	// IsRepo reports whether the directory is already a working tree.
	IsRepo(ctx context.Context) bool

	// Init initializes a new working tree.
	Init(ctx context.Context) error

	// SetRemote adds the named remote, or rewrites its URL if it exists.
	SetRemote(ctx context.Context, name, url string) error

	// EnsureIdentity sets committer identity only when unset.
	EnsureIdentity(ctx context.Context, name, email string) error

	// AddAll stages every file in the directory.
	AddAll(ctx context.Context) error

	// Unstage removes one path from the index, working tree untouched.
	Unstage(ctx context.Context, relPath string) error

	// Commit commits the index with the given message and returns the SHA.
	Commit(ctx context.Context, message string) (string, error)

	// CurrentBranch returns the branch HEAD is on.
	CurrentBranch(ctx context.Context) (string, error)

	// CreateBranch creates the named branch and switches to it.
	CreateBranch(ctx context.Context, name string) error

	// ApproveCredential registers a credential with git's transient cache.
	ApproveCredential(ctx context.Context, cred git.Credential) error

	// Push pushes a branch to a remote.
	Push(ctx context.Context, opts git.PushOptions) error
}

// Compile-time check that the exec-backed client implements the port.
var _ GitPort = (*git.Client)(nil)
