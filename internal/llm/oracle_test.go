package llm

import (
	"context"
	"errors"
	"testing"
)

// mockProvider implements Provider for testing.
type mockProvider struct {
	response string
	err      error
}

func (m *mockProvider) Generate(_ context.Context, _ string, _ int) (string, error) {
	return m.response, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

func TestOracleScoreParsesNumber(t *testing.T) {
	o := NewScoreOracle(&mockProvider{response: "85"}, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 85 {
		t.Errorf("score = %d, want 85", got)
	}
}

func TestOracleScoreExtractsFromProse(t *testing.T) {
	o := NewScoreOracle(&mockProvider{response: "I would rate this 72 out of 100."}, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 72 {
		t.Errorf("score = %d, want 72", got)
	}
}

func TestOracleScoreClampsRange(t *testing.T) {
	o := NewScoreOracle(&mockProvider{response: "150"}, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 100 {
		t.Errorf("score = %d, want clamped 100", got)
	}
}

func TestOracleScoreErrorIsNeutral(t *testing.T) {
	o := NewScoreOracle(&mockProvider{err: errors.New("connection refused")}, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 50 {
		t.Errorf("score = %d, want neutral 50", got)
	}
}

func TestOracleScoreNoNumberIsNeutral(t *testing.T) {
	o := NewScoreOracle(&mockProvider{response: "I cannot rate this item."}, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 50 {
		t.Errorf("score = %d, want neutral 50", got)
	}
}

func TestOracleScoreNilProviderIsNeutral(t *testing.T) {
	o := NewScoreOracle(nil, 50)
	if got := o.Score(context.Background(), "title", "summary"); got != 50 {
		t.Errorf("score = %d, want neutral 50", got)
	}
}
