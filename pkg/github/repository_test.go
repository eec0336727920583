package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

// newCreateServer returns an httptest server answering POST /user/repos with
// the given handler, plus a client pointed at it.
func newCreateServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("test-token", WithBaseURL(server.URL), WithTimeout(5*time.Second))
	return server, client
}

func TestCreateRepositorySuccess(t *testing.T) {
	var gotBody map[string]interface{}
	var gotMethod, gotAuth string

	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"name": "demo",
			"clone_url": "https://github.com/user/demo.git",
			"html_url": "https://github.com/user/demo"
		}`)
	})

	remote, err := client.CreateRepository(context.Background(), RepositorySpec{
		Name:        "demo",
		Description: "a demo",
		Private:     true,
	})
	if err != nil {
		t.Fatalf("CreateRepository() error = %v", err)
	}

	if remote.CloneURL != "https://github.com/user/demo.git" {
		t.Errorf("CloneURL = %q", remote.CloneURL)
	}
	if remote.HTMLURL != "https://github.com/user/demo" {
		t.Errorf("HTMLURL = %q", remote.HTMLURL)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotAuth == "" {
		t.Error("request was not authenticated")
	}
	if gotBody["name"] != "demo" {
		t.Errorf("body name = %v, want demo", gotBody["name"])
	}
	if gotBody["description"] != "a demo" {
		t.Errorf("body description = %v", gotBody["description"])
	}
	if gotBody["private"] != true {
		t.Errorf("body private = %v, want true", gotBody["private"])
	}
	if gotBody["auto_init"] != false {
		t.Errorf("body auto_init = %v, want false (the local push supplies the history)", gotBody["auto_init"])
	}
}

func TestCreateRepositoryDuplicateName(t *testing.T) {
	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{
			"message": "Repository creation failed.",
			"errors": [{"resource": "Repository", "field": "name", "code": "custom", "message": "name already exists on this account"}]
		}`)
	})

	_, err := client.CreateRepository(context.Background(), RepositorySpec{Name: "demo"})
	if err == nil {
		t.Fatal("CreateRepository() succeeded for duplicate name")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error %T is not a *ProviderError", err)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", provErr.StatusCode)
	}
	if provErr.Message == "" {
		t.Error("Message is empty, want provider's diagnostic")
	}
}

func TestCreateRepositoryUnauthorized(t *testing.T) {
	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})

	_, err := client.CreateRepository(context.Background(), RepositorySpec{Name: "demo"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error %T is not a *ProviderError", err)
	}
	if provErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", provErr.StatusCode)
	}
	if provErr.Message != "Bad credentials" {
		t.Errorf("Message = %q, want Bad credentials", provErr.Message)
	}
}

func TestCreateRepositoryErrorBodyWithoutMessage(t *testing.T) {
	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{}`)
	})

	_, err := client.CreateRepository(context.Background(), RepositorySpec{Name: "demo"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error %T is not a *ProviderError", err)
	}
	if provErr.Message == "" {
		t.Error("Message is empty, want generic fallback")
	}
}

func TestCreateRepositoryMissingCloneURL(t *testing.T) {
	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"name": "demo"}`)
	})

	_, err := client.CreateRepository(context.Background(), RepositorySpec{Name: "demo"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error %T is not a *ProviderError", err)
	}
}

func TestCreateRepositorySingleAttempt(t *testing.T) {
	attempts := 0
	_, client := newCreateServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "boom"}`)
	})

	if _, err := client.CreateRepository(context.Background(), RepositorySpec{Name: "demo"}); err == nil {
		t.Fatal("CreateRepository() succeeded, want error")
	}

	// Creation is not idempotent, so there must be no retries.
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1", attempts)
	}
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "")
	t.Setenv(AltTokenEnv, "")

	if _, err := NewClientFromEnv(); err == nil {
		t.Error("NewClientFromEnv() = nil error without token")
	}

	t.Setenv(AltTokenEnv, "alt-token")
	client, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv() error = %v", err)
	}
	if client.GetToken() != "alt-token" {
		t.Errorf("token = %q, want alt-token", client.GetToken())
	}
}

// TestCreateRepositoryRecorded replays a recorded live interaction when a
// cassette is present. Record with:
//
//	REPOLIFT_VCR_MODE=record GITHUB_TOKEN=your_token go test ./pkg/github/ -run TestCreateRepositoryRecorded
func TestCreateRepositoryRecorded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping recorded test in short mode")
	}

	rec, err := NewRecorder(t, "create_repository")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Skip("fixture create_repository not found; record it to enable this test")
		}
		t.Fatalf("failed to create recorder: %v", err)
	}
	defer rec.Stop()

	token := "test-token"
	if rec.IsRecording() {
		token = os.Getenv(TokenEnv)
		if token == "" {
			t.Fatalf("%s must be set when recording fixtures", TokenEnv)
		}
	}

	client := NewClient(token, WithHTTPClient(rec.HTTPClient()))

	remote, err := client.CreateRepository(context.Background(), RepositorySpec{
		Name:        "repolift-vcr-fixture",
		Description: "recorded fixture",
	})
	if err != nil {
		t.Fatalf("CreateRepository() error = %v", err)
	}
	if remote.CloneURL == "" || remote.HTMLURL == "" {
		t.Errorf("remote = %+v, want non-empty URLs", remote)
	}
}
