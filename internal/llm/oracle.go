package llm

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
)

const scorePrompt = `Give this AI news item an importance score (0-100).
Consider: industry impact, technical breakthrough, company influence.
Return ONLY the number.

Title: %s
Summary: %s`

// maxOracleSummaryLen bounds the summary text sent with a scoring request.
const maxOracleSummaryLen = 1000

var numberRe = regexp.MustCompile(`\d+`)

// ScoreOracle asks a provider for an importance estimate of a news item.
// Every failure mode (no provider, transport error, unparseable output)
// degrades to the neutral score so a flaky oracle can never stall or skew
// the scoring loop.
type ScoreOracle struct {
	provider Provider
	neutral  int
}

// NewScoreOracle creates a scoring oracle with the given neutral fallback.
func NewScoreOracle(provider Provider, neutral int) *ScoreOracle {
	if neutral <= 0 {
		neutral = 50
	}
	return &ScoreOracle{provider: provider, neutral: neutral}
}

// Score returns an importance estimate in [0,100] for the given title and
// summary text.
func (o *ScoreOracle) Score(ctx context.Context, title, summaryText string) int {
	if o.provider == nil {
		return o.neutral
	}

	if len(summaryText) > maxOracleSummaryLen {
		summaryText = summaryText[:maxOracleSummaryLen]
	}

	response, err := o.provider.Generate(ctx, fmt.Sprintf(scorePrompt, title, summaryText), 10)
	if err != nil {
		log.Printf("Error getting AI score for %q: %v", title, err)
		return o.neutral
	}

	match := numberRe.FindString(response)
	if match == "" {
		log.Printf("AI score response carried no number: %q", response)
		return o.neutral
	}

	n, err := strconv.Atoi(match)
	if err != nil {
		return o.neutral
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n
}
