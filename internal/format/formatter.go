// Package format turns transport-agnostic replies into outbound payloads:
// plain message bodies in text mode, body plus button labels in
// interactive mode. It performs no I/O; delivery belongs to transports.
package format

import (
	"fmt"
	"strings"

	"quizbot/internal/bank"
	"quizbot/internal/domain"
)

// Mode selects the outbound rendering shape.
type Mode string

const (
	ModeText        Mode = "text"
	ModeInteractive Mode = "interactive"
)

// ParseMode validates a configured mode string, defaulting to text.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeText:
		return ModeText, nil
	case ModeInteractive:
		return ModeInteractive, nil
	}
	return "", fmt.Errorf("unknown reply mode %q", s)
}

// Payload is a rendered outbound message. Buttons is populated only in
// interactive mode and holds at most three labels; the bank loader rejects
// wider questions before they can reach rendering.
type Payload struct {
	Body     string   `json:"body"`
	Buttons  []string `json:"buttons,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

type Formatter struct {
	mode Mode
}

func New(mode Mode) *Formatter {
	return &Formatter{mode: mode}
}

func (f *Formatter) Mode() Mode {
	return f.mode
}

// Render produces the outbound payload for a reply.
func (f *Formatter) Render(reply domain.Reply) Payload {
	switch reply.Kind {
	case domain.ReplyPlain:
		return Payload{Body: reply.Text}
	case domain.ReplyQuestion:
		return f.question(*reply.Prompt, "")
	case domain.ReplyFeedback:
		lead := feedbackText(*reply.Feedback)
		if reply.Summary != nil {
			return Payload{Body: lead + "\n\n" + summaryText(*reply.Summary)}
		}
		return f.question(*reply.Next, lead+"\n\n")
	}
	return Payload{}
}

func (f *Formatter) question(p domain.QuestionPrompt, lead string) Payload {
	header := fmt.Sprintf("Q%d/%d: %s", p.Number, p.Total, p.Question.Prompt)

	if f.mode == ModeInteractive {
		return Payload{
			Body:     lead + header,
			Buttons:  buttonLabels(p.Question),
			ImageURL: p.Question.ImageURL,
		}
	}

	var b strings.Builder
	b.WriteString(lead)
	b.WriteString(header)
	for i, opt := range p.Question.Options {
		b.WriteByte('\n')
		if p.Question.LetterTagged {
			b.WriteString(opt)
		} else {
			fmt.Fprintf(&b, "%c) %s", 'A'+i, opt)
		}
	}
	fmt.Fprintf(&b, "\n\nReply with %s, or the option text.", letterRange(len(p.Question.Options)))
	if p.HintAvailable {
		b.WriteString(" Send HINT if you need help.")
	}
	return Payload{Body: b.String(), ImageURL: p.Question.ImageURL}
}

func buttonLabels(q domain.Question) []string {
	labels := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if rest, ok := bank.StripLetterTag(opt); ok {
			labels = append(labels, rest)
			continue
		}
		labels = append(labels, opt)
	}
	return labels
}

func feedbackText(fb domain.Feedback) string {
	var b strings.Builder
	if fb.Correct {
		b.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&b, "❌ Not quite. Correct answer: %s.", fb.CorrectAnswer)
	}
	if fb.Explanation != "" {
		b.WriteString("\nℹ️ ")
		b.WriteString(fb.Explanation)
	}
	return b.String()
}

func summaryText(s domain.Summary) string {
	return fmt.Sprintf("Quiz complete! Score: %d/%d (%.0f%%). %s\nSend START to play again.",
		s.Score, s.Total, s.Percentage, s.Remark)
}

func letterRange(n int) string {
	letters := make([]string, 0, n)
	for i := 0; i < n; i++ {
		letters = append(letters, string(rune('A'+i)))
	}
	if len(letters) <= 1 {
		return strings.Join(letters, "")
	}
	return strings.Join(letters[:len(letters)-1], ", ") + " or " + letters[len(letters)-1]
}
