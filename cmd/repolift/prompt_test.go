package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPromptStringUsesDefaultOnEmpty(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("\n"), &out)

	got, err := p.promptString("Enter repository name", "demo")
	if err != nil {
		t.Fatalf("promptString() error = %v", err)
	}
	if got != "demo" {
		t.Errorf("promptString() = %q, want demo", got)
	}
	if !strings.Contains(out.String(), "Enter repository name") {
		t.Errorf("prompt label missing from output: %q", out.String())
	}
}

func TestPromptStringTrimsInput(t *testing.T) {
	p := newPrompter(strings.NewReader("  my-repo  \n"), &bytes.Buffer{})

	got, err := p.promptString("name", "")
	if err != nil {
		t.Fatalf("promptString() error = %v", err)
	}
	if got != "my-repo" {
		t.Errorf("promptString() = %q, want my-repo", got)
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"yes\n", false, true},
		{"n\n", true, false},
		{"no\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", false, false},
	}

	for _, tt := range tests {
		p := newPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
		got, err := p.promptYesNo("Make repository private?", tt.def)
		if err != nil {
			t.Fatalf("promptYesNo(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("promptYesNo(%q, def=%v) = %v, want %v", tt.input, tt.def, got, tt.want)
		}
	}
}

func TestPromptTokenFromPipe(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("ghp_secret\n"), &out)

	got, err := p.promptToken()
	if err != nil {
		t.Fatalf("promptToken() error = %v", err)
	}
	if got != "ghp_secret" {
		t.Errorf("promptToken() = %q", got)
	}
	if !strings.Contains(out.String(), "github.com/settings/tokens") {
		t.Errorf("token help text missing: %q", out.String())
	}
}

func TestPromptTokenRejectsEmpty(t *testing.T) {
	p := newPrompter(strings.NewReader("\n"), &bytes.Buffer{})

	if _, err := p.promptToken(); err == nil {
		t.Error("promptToken() = nil error for empty token")
	}
}
