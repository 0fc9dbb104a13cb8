package domain

import "math"

// Question is a single multiple-choice question. The correct option is
// resolved to an index at load time, regardless of whether the source file
// encoded the answer as a letter tag or as the literal option text.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Hint        string   `json:"hint,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`

	// AnswerIndex is the index into Options of the correct answer.
	AnswerIndex int `json:"-"`
	// LetterTagged is true when the options carry their own letter prefixes
	// ("A) Sun"), which makes bare letters acceptable answers.
	LetterTagged bool `json:"-"`
}

// CorrectOption returns the full text of the correct option.
func (q Question) CorrectOption() string {
	return q.Options[q.AnswerIndex]
}

// HasHint reports whether hint text was provided for this question.
func (q Question) HasHint() bool {
	return q.Hint != ""
}

// Bank is the ordered, immutable set of quiz questions.
type Bank struct {
	Questions []Question
}

// Len returns the number of questions in the bank.
func (b Bank) Len() int {
	return len(b.Questions)
}

// Question returns the question at index i, or ErrQuestionOutOfRange.
func (b Bank) Question(i int) (Question, error) {
	if i < 0 || i >= len(b.Questions) {
		return Question{}, ErrQuestionOutOfRange
	}
	return b.Questions[i], nil
}

// SentinelIndex marks a session that has not started the quiz.
const SentinelIndex = -1

// Session is a per-user progress record through the quiz.
type Session struct {
	Index    int `json:"index"`
	Score    int `json:"score"`
	Answered int `json:"answered"`
}

// NewSession returns a session in the not-started state.
func NewSession() Session {
	return Session{Index: SentinelIndex}
}

// Started reports whether the user has begun the quiz.
func (s Session) Started() bool {
	return s.Index != SentinelIndex
}

// Percentage computes score/answered as a percentage, rounded to a whole
// number. Answered zero yields zero rather than a division error.
func Percentage(score, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return math.Round(float64(score) / float64(answered) * 100)
}
