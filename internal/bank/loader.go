package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"quizbot/internal/domain"
)

// maxButtonOptions is the most options a structured button message can carry.
const maxButtonOptions = 3

// Record is the on-disk shape of a single question. The answer field holds
// either a letter tag (A-D) or the literal text of the correct option.
type Record struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"min=3,max=4,dive,required"`
	Answer      string   `json:"answer" validate:"required"`
	Hint        string   `json:"hint,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

var validate = validator.New()

// Load reads and validates a question bank from a JSON file. Any schema
// violation is fatal; a broken quiz must not be served. When interactive is
// true, questions with more than three options are rejected here because
// button messages cannot represent a fourth option.
func Load(path string, interactive bool) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return domain.Bank{}, fmt.Errorf("parse question bank: %w", err)
	}
	return Build(records, interactive)
}

// Build validates records and resolves each answer to an option index.
func Build(records []Record, interactive bool) (domain.Bank, error) {
	if len(records) == 0 {
		return domain.Bank{}, domain.ErrBankEmpty
	}

	questions := make([]domain.Question, 0, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return domain.Bank{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		if interactive && len(rec.Options) > maxButtonOptions {
			return domain.Bank{}, fmt.Errorf("question %d: %d options: %w",
				i+1, len(rec.Options), domain.ErrTooManyOptionsForButtons)
		}

		answerIdx, ok := resolveAnswer(rec.Answer, rec.Options)
		if !ok {
			return domain.Bank{}, fmt.Errorf("question %d: answer %q: %w",
				i+1, rec.Answer, domain.ErrAnswerNotInOptions)
		}

		questions = append(questions, domain.Question{
			Prompt:       rec.Question,
			Options:      rec.Options,
			Answer:       rec.Answer,
			Hint:         rec.Hint,
			Explanation:  rec.Explanation,
			ImageURL:     rec.ImageURL,
			AnswerIndex:  answerIdx,
			LetterTagged: LetterTagged(rec.Options),
		})
	}
	return domain.Bank{Questions: questions}, nil
}

// resolveAnswer maps the answer field onto an option index. Literal text
// takes priority over a letter tag so that an option that is itself a
// single letter cannot be shadowed.
func resolveAnswer(answer string, options []string) (int, bool) {
	answer = strings.TrimSpace(answer)
	for i, opt := range options {
		if strings.EqualFold(answer, strings.TrimSpace(opt)) {
			return i, true
		}
	}
	if idx, ok := LetterIndex(answer); ok && idx < len(options) {
		return idx, true
	}
	// Answer may repeat the option text without its letter tag.
	for i, opt := range options {
		if rest, ok := StripLetterTag(opt); ok && strings.EqualFold(answer, rest) {
			return i, true
		}
	}
	return 0, false
}

// LetterIndex converts a bare letter tag (A-D, either case) to an option index.
func LetterIndex(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	}
	return 0, false
}

// StripLetterTag removes a leading "A)", "A.", or "A:" tag from an option.
func StripLetterTag(opt string) (string, bool) {
	opt = strings.TrimSpace(opt)
	if len(opt) < 2 {
		return "", false
	}
	if _, ok := LetterIndex(opt[:1]); !ok {
		return "", false
	}
	switch opt[1] {
	case ')', '.', ':':
		return strings.TrimSpace(opt[2:]), true
	}
	return "", false
}

// LetterTagged reports whether every option carries its positional letter
// tag, e.g. ["A) Sun", "B) Moon"]. Only then are bare letters accepted as
// answers at runtime.
func LetterTagged(options []string) bool {
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if _, ok := StripLetterTag(opt); !ok {
			return false
		}
		if idx, _ := LetterIndex(opt[:1]); idx != i {
			return false
		}
	}
	return len(options) > 0
}
