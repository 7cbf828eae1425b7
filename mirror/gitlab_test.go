package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drydock-io/refit"
)

func newGitLabServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GitLabClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewGitLabClient("glpat-test", server.URL, WithHTTPClient(server.Client()))
	return server, client
}

func TestEnsureProject_Exists(t *testing.T) {
	_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/projects/") {
			json.NewEncoder(w).Encode(map[string]any{"id": 1, "path_with_namespace": "group/proj"})
			return
		}
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	err := client.EnsureProject(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"})
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
}

func TestEnsureProject_CreatesMissing(t *testing.T) {
	var created map[string]any
	_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/projects/"):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"message": "404 Project Not Found"})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/namespaces"):
			if got := r.URL.Query().Get("search"); got != "group" {
				t.Errorf("namespace search = %q, want group", got)
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 7, "full_path": "grouper"},
				{"id": 42, "full_path": "group"},
			})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/projects"):
			if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
				t.Errorf("decode create body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 99})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	err := client.EnsureProject(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"})
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	if created == nil {
		t.Fatal("project was not created")
	}
	if created["name"] != "proj" || created["path"] != "proj" {
		t.Errorf("create body = %v", created)
	}
	if created["namespace_id"] != float64(42) {
		t.Errorf("namespace_id = %v, want 42 (exact full_path match)", created["namespace_id"])
	}
}

func TestEnsureProject_ConflictIsSuccess(t *testing.T) {
	_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/projects/"):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"message": "404 Project Not Found"})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/namespaces"):
			json.NewEncoder(w).Encode([]map[string]any{{"id": 42, "full_path": "group"}})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/projects"):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{"message": "has already been taken"})
		}
	})

	err := client.EnsureProject(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"})
	if err != nil {
		t.Fatalf("EnsureProject should treat 409 as success, got %v", err)
	}
}

func TestEnsureProject_NamespaceNotFound(t *testing.T) {
	_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/projects/"):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"message": "404 Project Not Found"})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/namespaces"):
			json.NewEncoder(w).Encode([]map[string]any{})
		}
	})

	err := client.EnsureProject(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"})
	if !refit.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if !strings.Contains(err.Error(), "namespace not found") {
		t.Errorf("err = %v", err)
	}
}

func TestEnsureProject_Validation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		client := NewGitLabClient("", "")
		err := client.EnsureProject(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"})
		if !refit.IsValidation(err) {
			t.Errorf("err = %v, want validation error", err)
		}
	})

	t.Run("missing project path", func(t *testing.T) {
		client := NewGitLabClient("tok", "")
		err := client.EnsureProject(context.Background(), refit.MirrorSpec{})
		if !refit.IsValidation(err) {
			t.Errorf("err = %v, want validation error", err)
		}
	})
}

func TestTriggerPipeline(t *testing.T) {
	t.Run("web url returned", func(t *testing.T) {
		var gotRef string
		_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotRef, _ = body["ref"].(string)
			if gotRef == "" {
				gotRef = r.URL.Query().Get("ref")
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"id":      5,
				"web_url": "https://gitlab.com/group/proj/-/pipelines/5",
			})
		})

		url, err := client.TriggerPipeline(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"}, "feature")
		if err != nil {
			t.Fatalf("TriggerPipeline: %v", err)
		}
		if url != "https://gitlab.com/group/proj/-/pipelines/5" {
			t.Errorf("url = %q", url)
		}
		if gotRef != "feature" {
			t.Errorf("ref = %q, want feature", gotRef)
		}
	})

	t.Run("pipeline ref overrides branch", func(t *testing.T) {
		var gotRef string
		_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotRef, _ = body["ref"].(string)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 6, "web_url": "https://gitlab.com/p/-/pipelines/6"})
		})

		_, err := client.TriggerPipeline(context.Background(), refit.MirrorSpec{
			ProjectPath: "group/proj",
			PipelineRef: "release",
		}, "feature")
		if err != nil {
			t.Fatalf("TriggerPipeline: %v", err)
		}
		if gotRef != "release" {
			t.Errorf("ref = %q, want release", gotRef)
		}
	})

	t.Run("url synthesized from id", func(t *testing.T) {
		server, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 12})
		})

		url, err := client.TriggerPipeline(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"}, "feature")
		if err != nil {
			t.Fatalf("TriggerPipeline: %v", err)
		}
		want := fmt.Sprintf("%s/group/proj/-/pipelines/12", server.URL)
		if url != want {
			t.Errorf("url = %q, want %q", url, want)
		}
	})

	t.Run("api error", func(t *testing.T) {
		_, client := newGitLabServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"message": "Reference not found"})
		})

		_, err := client.TriggerPipeline(context.Background(), refit.MirrorSpec{ProjectPath: "group/proj"}, "gone")
		var terr *refit.TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("err = %v, want transport error", err)
		}
		if terr.Status != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", terr.Status)
		}
	})
}

func TestSplitProjectPath(t *testing.T) {
	tests := []struct {
		path          string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{path: "group/proj", wantNamespace: "group", wantName: "proj"},
		{path: "group/sub/proj", wantNamespace: "group/sub", wantName: "proj"},
		{path: "proj", wantNamespace: "", wantName: "proj"},
		{path: "/group/proj/", wantNamespace: "group", wantName: "proj"},
		{path: "", wantErr: true},
		{path: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			namespace, name, err := SplitProjectPath(tt.path)
			if tt.wantErr {
				if !refit.IsValidation(err) {
					t.Errorf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitProjectPath(%q): %v", tt.path, err)
			}
			if namespace != tt.wantNamespace || name != tt.wantName {
				t.Errorf("SplitProjectPath(%q) = (%q, %q), want (%q, %q)",
					tt.path, namespace, name, tt.wantNamespace, tt.wantName)
			}
		})
	}
}
