package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Credential describes a secret to register with git's transient credential
// cache. The secret is handed to git on stdin only; it is never written to a
// file, embedded in a URL, or passed on a command line.
type Credential struct {
	// Protocol is the URL scheme the credential applies to (e.g. "https").
	Protocol string

	// Host is the remote host the credential applies to (e.g. "github.com").
	Host string

	// Username is the account name presented with the secret.
	Username string

	// Secret is the password or access token.
	Secret string
}

// ApproveCredential registers the credential with git's in-memory credential
// cache for the current session. The cache owns the credential's lifetime;
// this program never stores it. The local credential.helper is pointed at the
// cache first so a subsequent push can find the approved entry.
func (c *Client) ApproveCredential(ctx context.Context, cred Credential) error {
	if cred.Secret == "" {
		return fmt.Errorf("credential secret must not be empty")
	}

	if err := c.SetConfig(ctx, "credential.helper", "cache"); err != nil {
		return fmt.Errorf("failed to enable credential cache helper: %w", err)
	}

	// git credential approve reads a key=value description terminated by a
	// blank line from stdin.
	var desc strings.Builder
	fmt.Fprintf(&desc, "protocol=%s\n", cred.Protocol)
	fmt.Fprintf(&desc, "host=%s\n", cred.Host)
	fmt.Fprintf(&desc, "username=%s\n", cred.Username)
	fmt.Fprintf(&desc, "password=%s\n", cred.Secret)
	desc.WriteString("\n")

	cmd := exec.CommandContext(ctx, "git", "-C", c.Dir, "credential", "approve")
	cmd.Stdin = strings.NewReader(desc.String())
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git credential approve failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}
