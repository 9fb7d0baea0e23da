package domain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateQuiz checks the authoring rules of a quiz definition.
func ValidateQuiz(q Quiz) error {
	if err := validatorInstance().Struct(q); err != nil {
		return fmt.Errorf("quiz %s: %w", q.ID, err)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("quiz %s: duplicate question id %q", q.ID, question.ID)
		}
		seen[question.ID] = struct{}{}

		correct := false
		for _, a := range question.Answers {
			correct = correct || a.IsCorrect
		}
		if !correct {
			return fmt.Errorf("quiz %s: question %s has no correct answer", q.ID, question.ID)
		}
	}
	return nil
}

// ValidateSubmission checks the shape of each response. Question references are checked by the scorer.
func ValidateSubmission(participantName string, responses []ResponseSubmission) error {
	if strings.TrimSpace(participantName) == "" {
		return fmt.Errorf("%w: participant name is required", ErrInvalidSubmission)
	}
	seen := make(map[string]struct{}, len(responses))
	for i, r := range responses {
		if err := validatorInstance().Struct(r); err != nil {
			return fmt.Errorf("%w: response %d: %v", ErrInvalidSubmission, i, err)
		}
		if _, dup := seen[r.QuestionID]; dup {
			return fmt.Errorf("%w: question %q answered twice", ErrInvalidSubmission, r.QuestionID)
		}
		seen[r.QuestionID] = struct{}{}
	}
	return nil
}
