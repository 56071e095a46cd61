package goal

import "math"

// Score grades a submitted quiz. answers[i] is the selected option index for
// question i, or nil if unanswered; unanswered and out-of-range selections
// count as wrong. The selection is resolved to its option text and compared
// string-equal to the question's answer.
//
// The result is round(100 * matches / len(quiz)), rounding half away from
// zero (math.Round). Deterministic: identical input always yields the same
// score. An empty quiz cannot be scored and returns ErrNoQuiz.
func Score(quiz []Question, answers []*int) (int, error) {
	if len(quiz) == 0 {
		return 0, ErrNoQuiz
	}
	matches := 0
	for i, q := range quiz {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		idx := *answers[i]
		if idx < 0 || idx >= len(q.Options) {
			continue
		}
		if q.Options[idx] == q.Answer {
			matches++
		}
	}
	return int(math.Round(float64(matches) / float64(len(quiz)) * 100)), nil
}
