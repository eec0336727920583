package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repolift/repolift/pkg/config"
	"github.com/repolift/repolift/pkg/github"
	"github.com/repolift/repolift/pkg/log"
	"github.com/repolift/repolift/pkg/publish"
)

const apiURLEnv = "REPOLIFT_API_URL"

var (
	repoName        string
	repoDescription string
	repoPrivate     bool
	branchName      string
	tokenFlag       string
	targetDir       string
	interactiveFlag bool
	logLevel        string
)

var rootCmd = &cobra.Command{
	Use:   "repolift",
	Short: "Create a GitHub repository and publish a local directory to it",
	Long: `repolift provisions a new GitHub repository and publishes a local
directory to it in one pass: it creates the remote repository over the REST
API, initializes the directory as a git working tree if needed, configures
the "origin" remote and a committer identity, stages and commits everything,
and pushes with upstream tracking.

The pipeline tolerates directories that are already initialized or already
have an "origin" remote, so a failed run can simply be re-run.

Examples:
  repolift --name demo --token $GITHUB_TOKEN
  repolift --name demo --private --branch feature --dir ./project
  repolift --interactive`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&repoName, "name", "n", "", "Repository name (prompted when omitted)")
	rootCmd.Flags().StringVarP(&repoDescription, "description", "d", "", "Repository description")
	rootCmd.Flags().BoolVarP(&repoPrivate, "private", "p", false, "Make the repository private")
	rootCmd.Flags().StringVarP(&branchName, "branch", "b", "main", "Branch name to publish")
	rootCmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "GitHub personal access token (or set GITHUB_TOKEN)")
	rootCmd.Flags().StringVar(&targetDir, "dir", ".", "Directory to publish")
	rootCmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "Prompt for all settings interactively")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %s: %w", targetDir, err)
	}

	cfg, err := config.Load(absDir)
	if err != nil {
		return err
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log.SetLevel(logLevel)

	// Flags beat project config; project config beats built-in defaults.
	branch := branchName
	if !cmd.Flags().Changed("branch") && cfg.Branch != "" {
		branch = cfg.Branch
	}
	private := repoPrivate
	if !cmd.Flags().Changed("private") && cfg.Private {
		private = true
	}
	description := repoDescription
	if description == "" {
		description = cfg.Description
	}

	in := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	token := tokenFlag
	if token == "" {
		token = os.Getenv(github.TokenEnv)
	}
	if token == "" {
		token = os.Getenv(github.AltTokenEnv)
	}
	if token == "" {
		token, err = in.promptToken()
		if err != nil {
			return err
		}
	}

	name := repoName
	if name == "" {
		name, err = in.promptString(fmt.Sprintf("Enter repository name (default: %s)", filepath.Base(absDir)), filepath.Base(absDir))
		if err != nil {
			return err
		}
	}

	if interactiveFlag {
		if !cmd.Flags().Changed("private") {
			private, err = in.promptYesNo("Make repository private?", private)
			if err != nil {
				return err
			}
		}
		if description == "" {
			description, err = in.promptString("Enter repository description (optional)", "")
			if err != nil {
				return err
			}
		}
		if !cmd.Flags().Changed("branch") {
			branch, err = in.promptString(fmt.Sprintf("Enter branch name (default: %s)", branch), branch)
			if err != nil {
				return err
			}
		}
	}

	clientOpts := []github.ClientOption{}
	if apiURL := os.Getenv(apiURLEnv); apiURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(apiURL))
	}
	client := github.NewClient(token, clientOpts...)

	spec := github.RepositorySpec{
		Name:        name,
		Description: description,
		Private:     private,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Creating repository %q...\n", name)
	remote, err := client.CreateRepository(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Repository %q created\n", name)

	pub := publish.NewPublisher(publish.Options{
		CommitMessage:   cfg.CommitMessage,
		CommitterName:   cfg.Git.AuthorName,
		CommitterEmail:  cfg.Git.AuthorEmail,
		DefaultBranches: cfg.DefaultBranches,
	})

	target := publish.Target{Dir: absDir, Branch: branch, Token: token}
	result, err := pub.Publish(ctx, target, publish.Remote{
		CloneURL: remote.CloneURL,
		HTMLURL:  remote.HTMLURL,
	})
	if err != nil {
		return err
	}

	for _, action := range result.Actions {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", action.Description)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %s to branch %q\n", absDir, result.Branch)
	fmt.Fprintf(cmd.OutOrStdout(), "Repository URL: %s\n", remote.HTMLURL)

	return nil
}
