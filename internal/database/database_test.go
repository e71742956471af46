package database

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestInsertAndGetDigest(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertDigest("2024-03-01", "## 1. GPT-5\n\nBody text", 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero digest ID")
	}

	d, err := db.GetDigest("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil {
		t.Fatal("expected digest, got nil")
	}
	if d.BodyMarkdown != "## 1. GPT-5\n\nBody text" || d.ItemCount != 5 || !d.Delivered {
		t.Errorf("round trip mismatch: %+v", d)
	}
}

func TestGetDigestMissing(t *testing.T) {
	db := openTestDB(t)
	d, err := db.GetDigest("2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil for missing digest, got %+v", d)
	}
}

func TestReplaceDigestSameDate(t *testing.T) {
	db := openTestDB(t)
	db.InsertDigest("2024-03-01", "first run", 3, false)
	db.InsertDigest("2024-03-01", "second run", 4, true)

	d, _ := db.GetDigest("2024-03-01")
	if d == nil || d.BodyMarkdown != "second run" || d.ItemCount != 4 {
		t.Errorf("re-run should replace the day's digest, got %+v", d)
	}

	digests, _ := db.GetAllDigests()
	if len(digests) != 1 {
		t.Errorf("expected 1 digest after replace, got %d", len(digests))
	}
}

func TestDigestItemsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	digestID, _ := db.InsertDigest("2024-03-01", "body", 1, false)

	item := DigestItem{
		DigestID:    digestID,
		Position:    1,
		Title:       "OpenAI Releases GPT-5",
		URL:         ptr("https://openai.com/blog/gpt-5"),
		Source:      ptr("OpenAI"),
		Summary:     ptr("A summary."),
		KeyChanges:  []string{"1M token context", "Lower API pricing"},
		RuleScore:   75,
		AIScore:     80,
		FinalScore:  77,
		PublishDate: ptr("2024-03-01"),
	}
	if _, err := db.InsertDigestItem(item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := db.GetDigestItems(digestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	got := items[0]
	if got.Title != item.Title || got.RuleScore != 75 || got.AIScore != 80 || got.FinalScore != 77 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.KeyChanges, item.KeyChanges) {
		t.Errorf("key changes = %v, want %v", got.KeyChanges, item.KeyChanges)
	}
	if got.URL == nil || *got.URL != "https://openai.com/blog/gpt-5" {
		t.Errorf("url = %v", got.URL)
	}
}

func TestGetLatestDigest(t *testing.T) {
	db := openTestDB(t)
	db.InsertDigest("2024-02-28", "older", 2, true)
	db.InsertDigest("2024-03-01", "newer", 3, true)

	d, err := db.GetLatestDigest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.RunDate != "2024-03-01" {
		t.Errorf("latest = %+v, want the 2024-03-01 digest", d)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertDigest("2024-03-01", "body", 2, true)
	db.InsertDigest("2024-02-28", "body", 1, false)
	db.InsertDigestItem(DigestItem{DigestID: id, Position: 1, Title: "a"})
	db.InsertDigestItem(DigestItem{DigestID: id, Position: 2, Title: "b"})

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DigestCount != 2 || stats.ItemCount != 2 || stats.DeliveredCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LatestRunDate != "2024-03-01" {
		t.Errorf("latest run = %q, want 2024-03-01", stats.LatestRunDate)
	}
}
