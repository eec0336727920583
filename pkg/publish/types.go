package publish

import "time"

// Target describes the local directory to publish and how to publish it.
type Target struct {
	// Dir is the absolute path of the directory to bring under version
	// control and push.
	Dir string

	// Branch is the branch name to publish.
	Branch string

	// Token is the credential used for the push. It is write-once, scoped
	// to this process invocation, and never persisted or logged.
	Token string
}

// Remote is the remote repository the target is published to.
type Remote struct {
	// CloneURL is the endpoint configured as the "origin" remote.
	CloneURL string

	// HTMLURL is the repository's web page, reported back to the operator.
	HTMLURL string
}

// Action records one completed pipeline stage for operator-facing output.
type Action struct {
	// Type is a short machine-readable action name.
	Type string

	// Description is a human-readable summary.
	Description string
}

// Result holds the outcome of a successful publish.
type Result struct {
	// Branch is the branch that was pushed.
	Branch string

	// CommitSHA is the created commit.
	CommitSHA string

	// Actions lists what the pipeline did, in order.
	Actions []Action

	// PublishedAt is when the push completed.
	PublishedAt time.Time
}
