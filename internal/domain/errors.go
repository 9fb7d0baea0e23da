package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every lookup failure.
	ErrNotFound = errors.New("not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded or is hidden.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)
	// ErrTeamNotFound indicates no competition team exists with the given id.
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
	// ErrStudentNotFound is returned by student directories for unknown ids.
	ErrStudentNotFound = fmt.Errorf("student %w", ErrNotFound)
	// ErrNotMember indicates the student has no member entry in the team.
	ErrNotMember = fmt.Errorf("team member %w", ErrNotFound)

	// ErrInvalidReference indicates a submitted response names a question absent from the quiz.
	ErrInvalidReference = errors.New("invalid question reference")
	// ErrInvalidSubmission is returned for malformed attempt payloads.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrInvalidState is the parent of every rejected team transition.
	ErrInvalidState = errors.New("invalid state")
	// ErrLeaderCannotLeave guards the leader against leaving or being removed.
	ErrLeaderCannotLeave = fmt.Errorf("%w: leader cannot leave the team", ErrInvalidState)
	// ErrNotLeader is returned when a leader-only action is requested by someone else.
	ErrNotLeader = fmt.Errorf("%w: only the team leader may do this", ErrInvalidState)
	// ErrTeamDisbanded is returned for any membership change on a disbanded team.
	ErrTeamDisbanded = fmt.Errorf("%w: team is disbanded", ErrInvalidState)

	// ErrDuplicateName indicates a team with the same name already exists.
	ErrDuplicateName = errors.New("team name already taken")
	// ErrNotInvited indicates the student has no pending invitation to the team.
	ErrNotInvited = errors.New("no pending invitation for student")
	// ErrInvalidDecision is returned for invitation decisions other than approved or rejected.
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	// ErrInvalidTeamName is returned for blank team names.
	ErrInvalidTeamName = errors.New("team name is required")

	// ErrConflict is returned by team stores when an optimistic write lost a race.
	ErrConflict = errors.New("concurrent modification")
)

// InvalidReferenceError names the question id a response pointed at.
type InvalidReferenceError struct {
	QuestionID string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidReference, e.QuestionID)
}

func (e *InvalidReferenceError) Unwrap() error {
	return ErrInvalidReference
}
