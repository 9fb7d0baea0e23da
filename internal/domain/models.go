package domain

import "time"

// AnswersPerQuestion is the fixed size of every question's answer set.
const AnswersPerQuestion = 4

// Answer is one of the four choices of a question.
type Answer struct {
	Text      string `json:"text" yaml:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// Question models a timed multiple choice question.
type Question struct {
	ID               string   `json:"id" yaml:"id" validate:"required"`
	Text             string   `json:"text" yaml:"text" validate:"required"`
	Answers          []Answer `json:"answers" yaml:"answers" validate:"len=4,dive"`
	TimeLimitSeconds int      `json:"timeLimitSeconds" yaml:"timeLimitSeconds" validate:"min=5,max=300"`
	Marks            int      `json:"marks" yaml:"marks" validate:"min=1"`
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Title     string     `json:"title" yaml:"title" validate:"required"`
	Visible   bool       `json:"visible" yaml:"visible"`
	Questions []Question `json:"questions" yaml:"questions" validate:"dive"`
}

// PublicQuestion is a question without correctness flags.
type PublicQuestion struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Answers          []string `json:"answers"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
	Marks            int      `json:"marks"`
}

// PublicQuiz is the only quiz shape handed to participants.
type PublicQuiz struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []PublicQuestion `json:"questions"`
}

// Public strips the answer key from the quiz.
func (q Quiz) Public() PublicQuiz {
	out := PublicQuiz{
		ID:        q.ID,
		Title:     q.Title,
		Questions: make([]PublicQuestion, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		answers := make([]string, 0, len(question.Answers))
		for _, a := range question.Answers {
			answers = append(answers, a.Text)
		}
		out.Questions = append(out.Questions, PublicQuestion{
			ID:               question.ID,
			Text:             question.Text,
			Answers:          answers,
			TimeLimitSeconds: question.TimeLimitSeconds,
			Marks:            question.Marks,
		})
	}
	return out
}

// MaxMarks sums the marks of every question, answered or not.
func (q Quiz) MaxMarks() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Marks
	}
	return total
}

// ResponseSubmission is one raw answer as sent by a participant.
type ResponseSubmission struct {
	QuestionID          string  `json:"questionId" validate:"required"`
	SelectedAnswerIndex int     `json:"selectedAnswerIndex" validate:"min=0,max=3"`
	ResponseTimeSeconds float64 `json:"responseTimeSeconds" validate:"gte=0"`
}

// QuestionResponse is a scored submission.
type QuestionResponse struct {
	QuestionID          string  `json:"questionId"`
	SelectedAnswerIndex int     `json:"selectedAnswerIndex"`
	ResponseTimeSeconds float64 `json:"responseTimeSeconds"`
	IsCorrect           bool    `json:"isCorrect"`
	MarksAwarded        float64 `json:"marksAwarded"`
}

// QuizAttempt is one participant's scored submission. It is never updated after creation.
type QuizAttempt struct {
	ID              string             `json:"id"`
	QuizID          string             `json:"quizId"`
	ParticipantName string             `json:"participantName"`
	Responses       []QuestionResponse `json:"responses"`
	TotalMarks      float64            `json:"totalMarks"`
	MaxMarks        float64            `json:"maxMarks"`
	Percentage      float64            `json:"percentage"`
	CompletedAt     time.Time          `json:"completedAt"`
}

// LeaderboardEntry is a listing-friendly view of an attempt.
type LeaderboardEntry struct {
	AttemptID       string    `json:"attemptId"`
	ParticipantName string    `json:"participantName"`
	TotalMarks      float64   `json:"totalMarks"`
	MaxMarks        float64   `json:"maxMarks"`
	Percentage      float64   `json:"percentage"`
	CompletedAt     time.Time `json:"completedAt"`
}

// Entry converts an attempt into its leaderboard row.
func (a QuizAttempt) Entry() LeaderboardEntry {
	return LeaderboardEntry{
		AttemptID:       a.ID,
		ParticipantName: a.ParticipantName,
		TotalMarks:      a.TotalMarks,
		MaxMarks:        a.MaxMarks,
		Percentage:      a.Percentage,
		CompletedAt:     a.CompletedAt,
	}
}

// Ranks reports whether e orders before other: higher percentage, then earlier completion, then name.
func (e LeaderboardEntry) Ranks(other LeaderboardEntry) bool {
	if e.Percentage != other.Percentage {
		return e.Percentage > other.Percentage
	}
	if !e.CompletedAt.Equal(other.CompletedAt) {
		return e.CompletedAt.Before(other.CompletedAt)
	}
	return e.ParticipantName < other.ParticipantName
}

// Leaderboard captures the ordered best attempts of a quiz.
type Leaderboard struct {
	QuizID    string             `json:"quizId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
