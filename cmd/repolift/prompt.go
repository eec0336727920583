package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads operator input for values not supplied via flags or env.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// promptString asks for a line of input, returning def on an empty answer.
func (p *prompter) promptString(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// promptYesNo asks a yes/no question, returning def on an empty answer.
func (p *prompter) promptYesNo(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.promptString(fmt.Sprintf("%s (%s)", label, hint), "")
	if err != nil {
		return def, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return def, nil
	}
}

// promptToken asks for the access token. When stdin is a terminal the token
// is read without echo so it never lands in the scrollback.
func (p *prompter) promptToken() (string, error) {
	fmt.Fprintln(p.out, "A GitHub personal access token with 'repo' scope is required.")
	fmt.Fprintln(p.out, "Create one at: https://github.com/settings/tokens")
	fmt.Fprint(p.out, "Enter your GitHub personal access token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		token := strings.TrimSpace(string(raw))
		if token == "" {
			return "", fmt.Errorf("token must not be empty")
		}
		return token, nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("token must not be empty")
	}
	return token, nil
}
