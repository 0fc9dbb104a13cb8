package engine_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"quizbot/internal/bank"
	"quizbot/internal/domain"
	"quizbot/internal/engine"
	"quizbot/internal/infra/memory"
)

func testBank() domain.Bank {
	return domain.Bank{Questions: []domain.Question{
		{
			Prompt:      "Pick the flower",
			Options:     []string{"Lotus", "Rose"},
			Answer:      "Lotus",
			AnswerIndex: 0,
			Hint:        "It grows in ponds.",
			Explanation: "The lotus it is.",
		},
		{
			Prompt:       "Pick the night light",
			Options:      []string{"A) Sun", "B) Moon"},
			Answer:       "B",
			AnswerIndex:  1,
			LetterTagged: true,
		},
	}}
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	repo := bank.NewCachedRepository(bank.NewStaticLoader(testBank()), time.Minute)
	return engine.New(memory.NewSessionStore(), repo)
}

func handle(t *testing.T, e *engine.Engine, user, text string) domain.Reply {
	t.Helper()
	reply, err := e.Handle(context.Background(), user, text)
	if err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return reply
}

func TestStartBeginsQuiz(t *testing.T) {
	e := newTestEngine(t)

	reply := handle(t, e, "u1", "START")
	if reply.Kind != domain.ReplyQuestion {
		t.Fatalf("expected question reply, got kind %d", reply.Kind)
	}
	if reply.Prompt.Number != 1 || reply.Prompt.Total != 2 {
		t.Fatalf("expected Q1/2, got Q%d/%d", reply.Prompt.Number, reply.Prompt.Total)
	}
	if !reply.Prompt.HintAvailable {
		t.Fatalf("expected hint availability on first question")
	}
}

func TestFullQuizToSummary(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")

	reply := handle(t, e, "u1", "Lotus")
	if reply.Kind != domain.ReplyFeedback || !reply.Feedback.Correct {
		t.Fatalf("expected correct feedback, got %+v", reply)
	}
	if reply.Next == nil || reply.Next.Number != 2 {
		t.Fatalf("expected next question 2, got %+v", reply.Next)
	}

	reply = handle(t, e, "u1", "B")
	if !reply.Feedback.Correct {
		t.Fatalf("expected correct feedback on letter answer")
	}
	if reply.Summary == nil {
		t.Fatalf("expected summary after last question, got %+v", reply)
	}
	if reply.Summary.Score != 2 || reply.Summary.Total != 2 || reply.Summary.Percentage != 100 {
		t.Fatalf("expected 2/2 (100%%), got %+v", reply.Summary)
	}

	// Session must be back to idle after the summary.
	reply = handle(t, e, "u1", "Lotus")
	if reply.Kind != domain.ReplyPlain || !strings.Contains(reply.Text, "START") {
		t.Fatalf("expected idle nudge after completion, got %+v", reply)
	}
}

func TestWrongAnswerAdvancesWithoutScore(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	reply := handle(t, e, "u1", "Rose")
	if reply.Feedback == nil || reply.Feedback.Correct {
		t.Fatalf("expected incorrect feedback, got %+v", reply)
	}
	if reply.Feedback.CorrectAnswer != "Lotus" {
		t.Fatalf("expected correct answer Lotus, got %q", reply.Feedback.CorrectAnswer)
	}
	if reply.Feedback.Explanation != "The lotus it is." {
		t.Fatalf("expected explanation, got %q", reply.Feedback.Explanation)
	}
	if reply.Next == nil || reply.Next.Number != 2 {
		t.Fatalf("expected advance to question 2, got %+v", reply.Next)
	}

	// Finish and confirm the miss did not score.
	reply = handle(t, e, "u1", "moon")
	if reply.Summary == nil || reply.Summary.Score != 1 || reply.Summary.Total != 2 {
		t.Fatalf("expected 1/2 summary, got %+v", reply.Summary)
	}
	if reply.Summary.Percentage != 50 {
		t.Fatalf("expected 50%%, got %v", reply.Summary.Percentage)
	}
}

func TestInvalidInputReprompts(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	reply := handle(t, e, "u1", "xyz")
	if reply.Kind != domain.ReplyQuestion || reply.Prompt.Number != 1 {
		t.Fatalf("expected re-prompt of question 1, got %+v", reply)
	}

	// No score or index movement: a correct run still sums to 2/2.
	handle(t, e, "u1", "Lotus")
	reply = handle(t, e, "u1", "B")
	if reply.Summary == nil || reply.Summary.Score != 2 || reply.Summary.Total != 2 {
		t.Fatalf("expected clean 2/2 after re-prompt, got %+v", reply.Summary)
	}
}

func TestStartRestartsMidQuiz(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	handle(t, e, "u1", "Lotus")

	reply := handle(t, e, "u1", "START")
	if reply.Kind != domain.ReplyQuestion || reply.Prompt.Number != 1 {
		t.Fatalf("expected restart at question 1, got %+v", reply)
	}

	// Score was wiped by the restart.
	handle(t, e, "u1", "Rose")
	reply = handle(t, e, "u1", "B")
	if reply.Summary == nil || reply.Summary.Score != 1 {
		t.Fatalf("expected score 1 after restart, got %+v", reply.Summary)
	}
}

func TestRestartAlias(t *testing.T) {
	e := newTestEngine(t)

	reply := handle(t, e, "u1", "restart")
	if reply.Kind != domain.ReplyQuestion || reply.Prompt.Number != 1 {
		t.Fatalf("expected restart alias to start quiz, got %+v", reply)
	}
}

func TestHelpPreservesState(t *testing.T) {
	e := newTestEngine(t)

	reply := handle(t, e, "u1", "help")
	if reply.Kind != domain.ReplyPlain || !strings.Contains(reply.Text, "START") {
		t.Fatalf("expected help text while idle, got %+v", reply)
	}

	handle(t, e, "u1", "start")
	reply = handle(t, e, "u1", "?")
	if reply.Kind != domain.ReplyPlain {
		t.Fatalf("expected help text mid-quiz, got %+v", reply)
	}

	// Still on question 1.
	reply = handle(t, e, "u1", "Lotus")
	if reply.Feedback == nil || !reply.Feedback.Correct || reply.Next.Number != 2 {
		t.Fatalf("expected state preserved across help, got %+v", reply)
	}
}

func TestIdleNudge(t *testing.T) {
	e := newTestEngine(t)

	reply := handle(t, e, "u1", "hello there")
	if reply.Kind != domain.ReplyPlain || !strings.Contains(reply.Text, "START") {
		t.Fatalf("expected nudge to send START, got %+v", reply)
	}
}

func TestHint(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	reply := handle(t, e, "u1", "HINT")
	if reply.Kind != domain.ReplyPlain || !strings.Contains(reply.Text, "ponds") {
		t.Fatalf("expected hint text, got %+v", reply)
	}

	// Hint does not advance the question.
	handle(t, e, "u1", "Lotus")
	reply = handle(t, e, "u1", "hint")
	if !strings.Contains(reply.Text, "No hint") {
		t.Fatalf("expected no-hint message on question 2, got %+v", reply)
	}
}

func TestAnswerPunctuationTrimmed(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	reply := handle(t, e, "u1", ` "Lotus". `)
	if reply.Feedback == nil || !reply.Feedback.Correct {
		t.Fatalf("expected punctuation-wrapped answer to match, got %+v", reply)
	}

	reply = handle(t, e, "u1", "b!")
	if reply.Feedback == nil || !reply.Feedback.Correct {
		t.Fatalf("expected trimmed letter answer to match, got %+v", reply)
	}
}

func TestBareLetterRejectedForUntaggedOptions(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	reply := handle(t, e, "u1", "A")
	if reply.Kind != domain.ReplyQuestion || reply.Prompt.Number != 1 {
		t.Fatalf("expected re-prompt, letters are not identifiers for untagged options, got %+v", reply)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	e := newTestEngine(t)

	handle(t, e, "u1", "start")
	handle(t, e, "u2", "start")
	handle(t, e, "u1", "Lotus")

	// u2 is still on question 1.
	reply := handle(t, e, "u2", "Rose")
	if reply.Feedback == nil || reply.Feedback.Correct {
		t.Fatalf("expected u2 graded on question 1, got %+v", reply)
	}
}
