package llm

import (
	"reflect"
	"testing"
)

func TestParseJSONResponsePlain(t *testing.T) {
	result := ParseJSONResponse(`{"key": "value", "num": 42}`)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["key"] != "value" {
		t.Errorf("expected key='value', got %v", result["key"])
	}
	if result["num"] != float64(42) {
		t.Errorf("expected num=42, got %v", result["num"])
	}
}

func TestParseJSONResponseWithCodeFence(t *testing.T) {
	text := "```json\n{\"key\": \"value\"}\n```"
	result := ParseJSONResponse(text)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["key"] != "value" {
		t.Errorf("expected key='value', got %v", result["key"])
	}
}

func TestParseJSONResponseWithLeadingProse(t *testing.T) {
	text := "Sure! Here is the JSON you asked for: {\"key\": \"value\"} Hope it helps."
	result := ParseJSONResponse(text)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["key"] != "value" {
		t.Errorf("expected key='value', got %v", result["key"])
	}
}

func TestParseJSONResponseInvalid(t *testing.T) {
	if result := ParseJSONResponse("not json at all"); result != nil {
		t.Error("expected nil for invalid JSON")
	}
}

func TestParseJSONResponseEmpty(t *testing.T) {
	if result := ParseJSONResponse(""); result != nil {
		t.Error("expected nil for empty string")
	}
}

func TestGetString(t *testing.T) {
	m := map[string]any{"title": "GPT-5 released", "count": float64(3)}

	if got := GetString(m, "title", "fallback"); got != "GPT-5 released" {
		t.Errorf("got %q, want the stored value", got)
	}
	if got := GetString(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("got %q, want the fallback", got)
	}
	if got := GetString(m, "count", "fallback"); got != "fallback" {
		t.Errorf("got %q, want the fallback for a non-string value", got)
	}
}

func TestGetStringSlice(t *testing.T) {
	m := map[string]any{
		"key_changes": []any{"128k context", float64(7), "new pricing"},
	}

	got := GetStringSlice(m, "key_changes")
	want := []string{"128k context", "new pricing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if GetStringSlice(m, "missing") != nil {
		t.Error("expected nil for missing key")
	}
}
