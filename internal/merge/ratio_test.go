package merge

import (
	"math"
	"testing"
)

func TestRatioIdentical(t *testing.T) {
	if got := Ratio("OpenAI Launches GPT-5", "OpenAI Launches GPT-5"); got != 1 {
		t.Errorf("identical strings: got %f, want 1", got)
	}
}

func TestRatioEmpty(t *testing.T) {
	if got := Ratio("", ""); got != 1 {
		t.Errorf("two empty strings: got %f, want 1", got)
	}
	if got := Ratio("abc", ""); got != 0 {
		t.Errorf("one empty string: got %f, want 0", got)
	}
}

func TestRatioKnownValue(t *testing.T) {
	// Longest block "bcd" (3), no further matches in the leftover pieces:
	// 2*3 / (4+4) = 0.75.
	if got := Ratio("abcd", "bcde"); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Ratio(abcd, bcde) = %f, want 0.75", got)
	}
}

func TestRatioSymmetry(t *testing.T) {
	a := "OpenAI Launches GPT-5"
	b := "OpenAI launches GPT5 model"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("ratio not symmetric: %f vs %f", Ratio(a, b), Ratio(b, a))
	}
}

func TestRatioNearDuplicateTitles(t *testing.T) {
	got := Ratio("OpenAI Launches GPT-5", "OpenAI launches GPT5 model")
	if got <= 0.7 {
		t.Errorf("near-duplicate titles should clear the merge threshold, got %f", got)
	}
}

func TestRatioDistinctTitles(t *testing.T) {
	got := Ratio("OpenAI Launches GPT-5", "Tesla Recalls 50,000 Vehicles")
	if got > 0.7 {
		t.Errorf("unrelated titles should stay below the merge threshold, got %f", got)
	}
}
