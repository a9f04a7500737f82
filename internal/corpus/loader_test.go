package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diabeai/diabuddy/internal/models"
)

func TestLoadWebExtractsContentSelector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>x</title></head><body>
			<nav>Skip this navigation</nav>
			<main><p>Check your blood sugar as your doctor advises.</p></main>
		</body></html>`))
	}))
	defer srv.Close()

	l := NewLoader(WithContentSelector("main"))
	text, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(text, "Check your blood sugar") {
		t.Errorf("expected main content in %q", text)
	}
	if strings.Contains(text, "Skip this navigation") {
		t.Errorf("navigation text should not be extracted: %q", text)
	}
}

func TestLoadWebFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Plain page without landmarks.</p></body></html>`))
	}))
	defer srv.Close()

	l := NewLoader(WithContentSelector("#missing"))
	text, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(text, "Plain page without landmarks.") {
		t.Errorf("expected body fallback text, got %q", text)
	}
}

func TestLoadWebNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader()
	if _, err := l.Load(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestLoadWebUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	l := NewLoader()
	if _, err := l.Load(context.Background(), srv.URL); err == nil {
		t.Error("expected error for unreachable host")
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Eat   regular meals.\n\nStay   active."), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	text, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if text != "Eat regular meals.\nStay active." {
		t.Errorf("unexpected file text: %q", text)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader()
	if _, err := l.Load(context.Background(), "/nonexistent/data.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDocumentSourcesCoverAllCategories(t *testing.T) {
	for _, c := range models.Categories() {
		if len(DocumentSources[c]) == 0 {
			t.Errorf("category %s has no document sources", c)
		}
	}
}
