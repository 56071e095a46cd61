package goal

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aim-achiever/internal/gemini"
)

// DayTask is one entry of a decomposition result.
type DayTask struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
}

// Decompose asks the oracle for a day-by-day breakdown of a goal. The result
// is returned as parsed; the oracle's entry count and day labels are trusted
// as-is except that a broken day sequence is reindexed (see normalizeDays).
func Decompose(ctx context.Context, oracle gemini.Generator, title string, days int, description string) ([]DayTask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: goal title required", ErrValidation)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: day count must be at least 1", ErrValidation)
	}

	prompt := fmt.Sprintf("Break down the following goal into a detailed, step-by-step daily plan for %d days. "+
		"Each day should have a clear, actionable microtask. Respond in JSON array format, "+
		"where each item is an object with 'day' (number) and 'title' (string) fields.\nGoal: %s", days, title)
	if strings.TrimSpace(description) != "" {
		prompt += fmt.Sprintf("\nDescription: %s", description)
	}

	raw, err := oracle.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var tasks []DayTask
	if err := gemini.ExtractJSON(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return normalizeDays(tasks), nil
}

// normalizeDays keeps the oracle's day labels when they form a strictly
// increasing positive sequence; otherwise the list is reindexed in arrival
// order so day indices stay unique within the goal.
func normalizeDays(tasks []DayTask) []DayTask {
	prev := 0
	valid := true
	for _, t := range tasks {
		if t.Day <= prev {
			valid = false
			break
		}
		prev = t.Day
	}
	if valid {
		return tasks
	}
	log.Printf("[Goals] oracle day sequence not strictly increasing, reindexing %d entries", len(tasks))
	for i := range tasks {
		tasks[i].Day = i + 1
	}
	return tasks
}
