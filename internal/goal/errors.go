package goal

import "errors"

var (
	// ErrGeneration: the oracle errored or its output had no parseable shape.
	ErrGeneration = errors.New("generation failed")
	// ErrValidation: missing or malformed caller input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound: referenced goal or microtask does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a concurrent completion attempt won the version check.
	ErrConflict = errors.New("concurrent modification")
	// ErrLocked: the microtask is not currently unlocked, or the goal is not active.
	ErrLocked = errors.New("microtask not unlocked")
	// ErrNoQuiz: no quiz content is attached; scoring an empty quiz is undefined.
	ErrNoQuiz = errors.New("no quiz available")
)
