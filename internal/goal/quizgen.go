package goal

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aim-achiever/internal/gemini"
)

// GenerateQuiz asks the oracle for a fixed-size multiple-choice quiz for a
// microtask. Items whose answer text does not appear among the options are
// kept (the scoring contract compares by text), but logged as a data-quality
// warning since such questions are unwinnable.
func GenerateQuiz(ctx context.Context, oracle gemini.Generator, microtaskTitle string) ([]Question, error) {
	if strings.TrimSpace(microtaskTitle) == "" {
		return nil, fmt.Errorf("%w: microtask title required", ErrValidation)
	}

	prompt := fmt.Sprintf("Generate a quiz of exactly %d questions with correct answers for the following task. "+
		"The quiz should be related to the task and test understanding or completion. "+
		"Respond in JSON array format, where each item is an object with 'question' (string), "+
		"'options' (array of strings), and 'answer' (string, the correct option).\nTask: %s",
		QuizLength, microtaskTitle)

	raw, err := oracle.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var quiz []Question
	if err := gemini.ExtractJSON(raw, &quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	for _, warning := range QuizWarnings(quiz) {
		log.Printf("[Goals] quiz for %q: %s", microtaskTitle, warning)
	}
	return quiz, nil
}

// QuizWarnings reports data-quality problems in a generated quiz without
// fixing them: answers missing from the option list and duplicate options.
func QuizWarnings(quiz []Question) []string {
	var warnings []string
	for i, q := range quiz {
		found := false
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
			}
			if seen[opt] {
				warnings = append(warnings, fmt.Sprintf("question %d has duplicate option %q", i+1, opt))
			}
			seen[opt] = true
		}
		if !found {
			warnings = append(warnings, fmt.Sprintf("question %d answer %q not among its options", i+1, q.Answer))
		}
	}
	return warnings
}
