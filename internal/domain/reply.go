package domain

// ReplyKind tags the variant carried by a Reply.
type ReplyKind int

const (
	// ReplyPlain is a static message (help text, nudges).
	ReplyPlain ReplyKind = iota
	// ReplyQuestion prompts the user with a question.
	ReplyQuestion
	// ReplyFeedback grades an answer and carries either the next question
	// or the final summary.
	ReplyFeedback
)

// QuestionPrompt is a question positioned within the quiz.
type QuestionPrompt struct {
	Number        int // 1-based
	Total         int
	Question      Question
	HintAvailable bool
}

// Feedback grades a single answer.
type Feedback struct {
	Correct       bool
	CorrectAnswer string
	Explanation   string
}

// Summary closes out a finished quiz.
type Summary struct {
	Score      int
	Total      int
	Percentage float64
	Remark     string
}

// Reply is the transport-agnostic description of what to tell the user
// next. Exactly one of the optional fields matching Kind is set; a
// ReplyFeedback carries Feedback plus either Next or Summary.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Prompt   *QuestionPrompt
	Feedback *Feedback
	Next     *QuestionPrompt
	Summary  *Summary
}

// PlainReply builds a static text reply.
func PlainReply(text string) Reply {
	return Reply{Kind: ReplyPlain, Text: text}
}

// QuestionReply builds a question prompt reply.
func QuestionReply(p QuestionPrompt) Reply {
	return Reply{Kind: ReplyQuestion, Prompt: &p}
}

// FeedbackReply builds a graded-answer reply followed by the next question.
func FeedbackReply(f Feedback, next QuestionPrompt) Reply {
	return Reply{Kind: ReplyFeedback, Feedback: &f, Next: &next}
}

// SummaryReply builds a graded-answer reply followed by the final summary.
func SummaryReply(f Feedback, s Summary) Reply {
	return Reply{Kind: ReplyFeedback, Feedback: &f, Summary: &s}
}
