package domain

import "errors"

var (
	// ErrBankEmpty is returned when the question source holds no questions.
	ErrBankEmpty = errors.New("question bank is empty")
	// ErrAnswerNotInOptions indicates a question whose answer matches
	// neither an option's text nor a letter tag within range.
	ErrAnswerNotInOptions = errors.New("answer does not match any option")
	// ErrTooManyOptionsForButtons indicates a question that cannot be
	// rendered as a button message in interactive mode.
	ErrTooManyOptionsForButtons = errors.New("too many options for button rendering")
	// ErrQuestionOutOfRange indicates an index outside the bank.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrSessionNotFound is returned when a stored session cannot be read back.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt indicates a stored session that failed to decode.
	ErrSessionCorrupt = errors.New("session record corrupt")
)
