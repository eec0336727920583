package publish

import "fmt"

// Stage identifies a pipeline stage for failure reporting.
type Stage string

const (
	// StageInit ensures the target directory is a git working tree.
	StageInit Stage = "init"

	// StageRemote ensures the "origin" remote points at the clone endpoint.
	StageRemote Stage = "remote"

	// StageIdentity ensures a committer identity is configured.
	StageIdentity Stage = "identity"

	// StageStage stages every file in the target directory.
	StageStage Stage = "stage"

	// StageGuard unstages this program's own executable.
	StageGuard Stage = "guard"

	// StageCommit creates the commit.
	StageCommit Stage = "commit"

	// StageBranch creates and switches to a non-default branch.
	StageBranch Stage = "branch"

	// StagePush pushes the current branch to origin.
	StagePush Stage = "push"
)

// StageError reports which pipeline stage failed, carrying the underlying
// tool's diagnostic text verbatim.
type StageError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage

	// Err is the underlying failure, including git's own output.
	Err error
}

// Error returns the error message.
func (e *StageError) Error() string {
	return fmt.Sprintf("publish stage %q failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
