package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"visearch/internal/domain"
)

func newTestServer(t *testing.T, vec []float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var body struct {
			Input string `json:"input"`
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Input == "" || body.Model == "" {
			t.Errorf("request missing input or model: %+v", body)
		}
		resp := map[string]any{"data": []map[string]any{{"embedding": vec}}}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeImageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestEmbed(t *testing.T) {
	t.Setenv("TEST_API_KEY", "test-key")
	srv := newTestServer(t, []float64{0.1, 0.2, 0.3})

	p, err := New(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Dimension() != 0 {
		t.Fatalf("dimension before first call = %d, want 0", p.Dimension())
	}
	vec, err := p.Embed(context.Background(), writeImageFile(t))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("vec = %v", vec)
	}
	if p.Dimension() != 3 {
		t.Fatalf("dimension after first call = %d, want 3", p.Dimension())
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("TEST_API_KEY", "")
	if _, err := New(Config{APIKeyEnv: "TEST_API_KEY"}); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestUnreadableImage(t *testing.T) {
	t.Setenv("TEST_API_KEY", "test-key")
	srv := newTestServer(t, []float64{1})

	p, err := New(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Embed(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, domain.ErrImageDecode) {
		t.Fatalf("err = %v, want ErrImageDecode", err)
	}
}

func TestServerError(t *testing.T) {
	t.Setenv("TEST_API_KEY", "test-key")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	p, err := New(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_API_KEY"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Embed(context.Background(), writeImageFile(t)); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}
