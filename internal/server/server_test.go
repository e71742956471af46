package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuki-studio/ai-news-daily-notifier/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Digest Archive") {
		t.Error("expected 'Digest Archive' in response body")
	}
}

func TestIndexListsDigests(t *testing.T) {
	db := openTestDB(t)
	db.InsertDigest("2024-03-01", "## 1. GPT-5\n\nBody", 5, true)

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "2024-03-01") {
		t.Error("expected archived run date in index")
	}
	if !strings.Contains(body, "5 items") {
		t.Error("expected item count in index")
	}
}

func TestDigestRoute(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertDigest("2024-03-01", "## 1. GPT-5 Released\n\nBody text", 1, true)
	url := "https://openai.com/blog/gpt-5"
	db.InsertDigestItem(database.DigestItem{
		DigestID: id, Position: 1, Title: "GPT-5 Released", URL: &url,
		RuleScore: 75, AIScore: 80, FinalScore: 77,
	})

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/2024-03-01", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	// goldmark renders the section heading to HTML.
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "GPT-5 Released") {
		t.Error("expected rendered markdown heading in response")
	}
	if !strings.Contains(body, "77.0") {
		t.Error("expected final score in the score table")
	}
}

func TestDigestRouteMissing(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/1999-01-01", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No digest") {
		t.Error("expected missing-digest message")
	}
}

func TestUnknownRoute(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
