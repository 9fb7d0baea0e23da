package app

import (
	"github.com/shopspring/decimal"

	"campus-club-service/internal/domain"
)

var (
	floorShare = decimal.RequireFromString("0.1")
	hundred    = decimal.NewFromInt(100)
)

// ScoredAttempt is the scorer's output before it becomes a persisted attempt.
type ScoredAttempt struct {
	Responses  []domain.QuestionResponse
	TotalMarks float64
	MaxMarks   float64
	Percentage float64
}

// ScoreAttempt scores every response against quiz. Any response naming an unknown
// question aborts the whole attempt with an *domain.InvalidReferenceError.
// Unanswered questions still count towards MaxMarks.
func ScoreAttempt(quiz domain.Quiz, responses []domain.ResponseSubmission) (ScoredAttempt, error) {
	questions := make(map[string]*domain.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	scored := make([]domain.QuestionResponse, 0, len(responses))
	total := decimal.Zero
	for _, r := range responses {
		question, ok := questions[r.QuestionID]
		if !ok {
			return ScoredAttempt{}, &domain.InvalidReferenceError{QuestionID: r.QuestionID}
		}

		correct := isCorrect(question, r.SelectedAnswerIndex)
		awarded := decimal.Zero
		if correct {
			awarded = awardMarks(question.Marks, question.TimeLimitSeconds, r.ResponseTimeSeconds)
		}
		total = total.Add(awarded)

		scored = append(scored, domain.QuestionResponse{
			QuestionID:          r.QuestionID,
			SelectedAnswerIndex: r.SelectedAnswerIndex,
			ResponseTimeSeconds: r.ResponseTimeSeconds,
			IsCorrect:           correct,
			MarksAwarded:        awarded.InexactFloat64(),
		})
	}

	total = total.Round(2)
	maxMarks := decimal.NewFromInt(int64(quiz.MaxMarks()))
	percentage := decimal.Zero
	if maxMarks.IsPositive() {
		percentage = total.Div(maxMarks).Mul(hundred).Round(2)
	}

	return ScoredAttempt{
		Responses:  scored,
		TotalMarks: total.InexactFloat64(),
		MaxMarks:   maxMarks.InexactFloat64(),
		Percentage: percentage.InexactFloat64(),
	}, nil
}

func isCorrect(q *domain.Question, index int) bool {
	if index < 0 || index >= len(q.Answers) {
		return false
	}
	return q.Answers[index].IsCorrect
}

// awardMarks decays marks linearly over the time limit, never below 10% of marks.
func awardMarks(marks, timeLimitSeconds int, responseTimeSeconds float64) decimal.Decimal {
	m := decimal.NewFromInt(int64(marks))
	fraction := decimal.Zero
	if timeLimitSeconds > 0 {
		limit := decimal.NewFromInt(int64(timeLimitSeconds))
		fraction = limit.Sub(decimal.NewFromFloat(responseTimeSeconds)).Div(limit)
		if fraction.IsNegative() {
			fraction = decimal.Zero
		}
		if fraction.GreaterThan(decimal.NewFromInt(1)) {
			fraction = decimal.NewFromInt(1)
		}
	}
	return decimal.Max(m.Mul(floorShare), m.Mul(fraction)).Round(2)
}
