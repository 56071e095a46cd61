package mood

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aim-achiever/internal/gemini"
)

var ErrAnalysis = errors.New("mood analysis failed")

// Analysis is the oracle's evaluation of a free-text mood report. Quote is
// set for high moods (4-5), Advice for low ones (below 3).
type Analysis struct {
	Rating *int   `json:"rating"`
	Quote  string `json:"quote"`
	Advice string `json:"advice"`
}

// Analyze asks the oracle to rate a mood report. The rating is required;
// an output without one is treated as a generation failure.
func Analyze(ctx context.Context, oracle gemini.Generator, moodInput string) (*Analysis, error) {
	if strings.TrimSpace(moodInput) == "" {
		return nil, fmt.Errorf("%w: mood input required", ErrAnalysis)
	}

	prompt := fmt.Sprintf(`A user submitted this mood input: %q.
1. Rate their mood on a scale of 1 (very low) to 5 (very high).
2. If the mood is 4 or 5, give a short motivational quote.
3. If the mood is below 3, give a short practical advice.
Respond in JSON: { "rating": <1-5>, "quote"?: <string>, "advice"?: <string> }`, moodInput)

	raw, err := oracle.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	var result Analysis
	if err := gemini.ExtractJSON(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	if result.Rating == nil {
		return nil, fmt.Errorf("%w: no rating in oracle response", ErrAnalysis)
	}
	return &result, nil
}
