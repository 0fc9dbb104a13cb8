package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"quizbot/internal/bank"
	"quizbot/internal/domain"
)

// SessionStore abstracts how per-user sessions are kept (in-memory, Redis).
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID string) (domain.Session, error)
	Put(ctx context.Context, userID string, session domain.Session) error
	Reset(ctx context.Context, userID string) error
}

// BankRepository serves the loaded question bank.
type BankRepository interface {
	Bank(ctx context.Context) (domain.Bank, error)
}

const helpText = "Send START to begin. Answer with the option letter or the option text. " +
	"Send HINT for a hint, START anytime to restart."

const idleNudge = "Send START to begin the quiz."

// Engine drives a per-user quiz session through the question sequence.
// Malformed user input is never an error; it produces a re-prompt.
type Engine struct {
	store SessionStore
	banks BankRepository
}

func New(store SessionStore, banks BankRepository) *Engine {
	return &Engine{store: store, banks: banks}
}

// Handle processes one inbound message and returns the reply to deliver.
// It is the sole entry point into the quiz core; transports feed it the
// sender identifier and raw message text.
func (e *Engine) Handle(ctx context.Context, userID, text string) (domain.Reply, error) {
	qs, err := e.banks.Bank(ctx)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("load bank: %w", err)
	}

	switch parseCommand(text) {
	case cmdStart:
		return e.start(ctx, userID, qs)
	case cmdHelp:
		return domain.PlainReply(helpText), nil
	}

	session, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("session for %s: %w", userID, err)
	}

	if !session.Started() {
		return domain.PlainReply(idleNudge), nil
	}

	question, err := qs.Question(session.Index)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("question %d for %s: %w", session.Index, userID, err)
	}

	if parseCommand(text) == cmdHint {
		if question.HasHint() {
			return domain.PlainReply("Hint: " + question.Hint), nil
		}
		return domain.PlainReply("No hint available for this question."), nil
	}

	selected, ok := matchOption(text, question)
	if !ok {
		// Unrecognized input must not advance the quiz.
		return domain.QuestionReply(promptAt(qs, session.Index)), nil
	}
	return e.grade(ctx, userID, qs, session, question, selected)
}

func (e *Engine) start(ctx context.Context, userID string, qs domain.Bank) (domain.Reply, error) {
	session := domain.Session{Index: 0}
	if err := e.store.Put(ctx, userID, session); err != nil {
		return domain.Reply{}, fmt.Errorf("start session for %s: %w", userID, err)
	}
	return domain.QuestionReply(promptAt(qs, 0)), nil
}

func (e *Engine) grade(ctx context.Context, userID string, qs domain.Bank,
	session domain.Session, question domain.Question, selected int) (domain.Reply, error) {

	correct := selected == question.AnswerIndex
	if correct {
		session.Score++
	}
	session.Answered++
	session.Index++

	feedback := domain.Feedback{
		Correct:       correct,
		CorrectAnswer: question.CorrectOption(),
		Explanation:   question.Explanation,
	}

	if session.Index >= qs.Len() {
		pct := domain.Percentage(session.Score, session.Answered)
		summary := domain.Summary{
			Score:      session.Score,
			Total:      session.Answered,
			Percentage: pct,
			Remark:     closingRemark(pct),
		}
		if err := e.store.Reset(ctx, userID); err != nil {
			return domain.Reply{}, fmt.Errorf("reset session for %s: %w", userID, err)
		}
		return domain.SummaryReply(feedback, summary), nil
	}

	if err := e.store.Put(ctx, userID, session); err != nil {
		return domain.Reply{}, fmt.Errorf("save session for %s: %w", userID, err)
	}
	return domain.FeedbackReply(feedback, promptAt(qs, session.Index)), nil
}

func promptAt(qs domain.Bank, index int) domain.QuestionPrompt {
	q := qs.Questions[index]
	return domain.QuestionPrompt{
		Number:        index + 1,
		Total:         qs.Len(),
		Question:      q,
		HintAvailable: q.HasHint(),
	}
}

func closingRemark(pct float64) string {
	switch {
	case pct == 100:
		return "Perfect! 🌟"
	case pct >= 80:
		return "Great job! 🎉"
	case pct >= 50:
		return "Nice effort! 👍"
	default:
		return "Keep practicing! 💪"
	}
}

// normalizeAnswer trims whitespace and surrounding punctuation so that
// inputs like `"Lotus".` still match their option.
func normalizeAnswer(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// matchOption resolves inbound text to an option index. Full option text
// matches take priority over letter tags; letters are accepted only when
// the options themselves are letter-tagged.
func matchOption(text string, q domain.Question) (int, bool) {
	answer := normalizeAnswer(text)
	if answer == "" {
		return 0, false
	}
	for i, opt := range q.Options {
		if strings.EqualFold(answer, strings.TrimSpace(opt)) {
			return i, true
		}
	}
	for i, opt := range q.Options {
		if rest, ok := bank.StripLetterTag(opt); ok && strings.EqualFold(answer, rest) {
			return i, true
		}
	}
	if q.LetterTagged {
		if idx, ok := bank.LetterIndex(answer); ok && idx < len(q.Options) {
			return idx, true
		}
	}
	return 0, false
}
