// Package config provides project-level configuration for repolift.
// It loads .repolift.yaml with precedence: CLI flags > project config >
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the configuration file.
const ConfigFile = ".repolift.yaml"

// ProjectConfig represents project-level defaults for repolift.
// Every field can be overridden by a CLI flag.
type ProjectConfig struct {
	// Branch is the default branch name to publish.
	Branch string `yaml:"branch,omitempty"`

	// Private makes new repositories private by default.
	Private bool `yaml:"private,omitempty"`

	// Description is the default repository description.
	Description string `yaml:"description,omitempty"`

	// CommitMessage overrides the message of the initial commit.
	CommitMessage string `yaml:"commit_message,omitempty"`

	// DefaultBranches overrides the conventional default branch name set
	// used to decide whether a new branch must be created.
	DefaultBranches []string `yaml:"default_branches,omitempty"`

	// Git contains committer identity overrides.
	Git GitConfig `yaml:"git,omitempty"`

	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

// GitConfig contains committer identity placeholders applied when the
// repository has no identity configured.
type GitConfig struct {
	// AuthorName is used for git config user.name.
	AuthorName string `yaml:"author_name,omitempty"`

	// AuthorEmail is used for git config user.email.
	AuthorEmail string `yaml:"author_email,omitempty"`
}

// Load loads the project configuration from the given directory, searching
// the directory and its parents. A missing file yields a zero config and nil
// error; a file that exists but does not parse is an error.
func Load(dir string) (*ProjectConfig, error) {
	configPath, err := findConfigPath(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &ProjectConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &cfg, nil
}

// findConfigPath walks from dir to the filesystem root looking for the
// config file. Returns "" when none is found.
func findConfigPath(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	for {
		candidate := filepath.Join(current, ConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}
