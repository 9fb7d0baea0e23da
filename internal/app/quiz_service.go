package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus-club-service/internal/domain"
)

// DefaultLeaderboardSize bounds leaderboard listings when callers pass no limit.
const DefaultLeaderboardSize = 10

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptRepository persists scored attempts. Attempts are write-once.
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.QuizAttempt) error
}

// LeaderboardStore ranks attempts per quiz.
type LeaderboardStore interface {
	Record(ctx context.Context, attempt domain.QuizAttempt) error
	Top(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error)
}

// QuizService contains the quiz attempt use cases.
type QuizService struct {
	quizzes     QuizRepository
	attempts    AttemptRepository
	leaderboard LeaderboardStore
	hub         *LeaderboardHub
	size        int
	now         func() time.Time

	// refresh holds one lock per quiz around leaderboard read+publish.
	refreshMu sync.Mutex
	refresh   map[string]*sync.Mutex
}

func NewQuizService(quizzes QuizRepository, attempts AttemptRepository, leaderboard LeaderboardStore, hub *LeaderboardHub) *QuizService {
	return NewQuizServiceWithClock(quizzes, attempts, leaderboard, hub, time.Now)
}

// NewQuizServiceWithClock is used by tests for deterministic completion times.
func NewQuizServiceWithClock(quizzes QuizRepository, attempts AttemptRepository, leaderboard LeaderboardStore, hub *LeaderboardHub, now func() time.Time) *QuizService {
	if hub == nil {
		hub = NewLeaderboardHub()
	}
	return &QuizService{
		quizzes:     quizzes,
		attempts:    attempts,
		leaderboard: leaderboard,
		hub:         hub,
		size:        DefaultLeaderboardSize,
		now:         now,
		refresh:     make(map[string]*sync.Mutex),
	}
}

// SetLeaderboardSize changes how many entries are broadcast after each attempt.
func (s *QuizService) SetLeaderboardSize(n int) {
	if n > 0 {
		s.size = n
	}
}

// GetPublicQuiz returns a visible quiz without its answer key.
func (s *QuizService) GetPublicQuiz(ctx context.Context, quizID string) (domain.PublicQuiz, error) {
	quiz, err := s.visibleQuiz(ctx, quizID)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	return quiz.Public(), nil
}

// SubmitAttempt scores responses and persists the resulting attempt. Nothing is
// stored when validation or scoring fails.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, participantName string, responses []domain.ResponseSubmission) (domain.QuizAttempt, error) {
	participantName = strings.TrimSpace(participantName)
	if err := domain.ValidateSubmission(participantName, responses); err != nil {
		return domain.QuizAttempt{}, err
	}

	quiz, err := s.visibleQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizAttempt{}, err
	}

	scored, err := ScoreAttempt(quiz, responses)
	if err != nil {
		return domain.QuizAttempt{}, err
	}

	attempt := domain.QuizAttempt{
		ID:              uuid.NewString(),
		QuizID:          quiz.ID,
		ParticipantName: participantName,
		Responses:       scored.Responses,
		TotalMarks:      scored.TotalMarks,
		MaxMarks:        scored.MaxMarks,
		Percentage:      scored.Percentage,
		CompletedAt:     s.now().UTC(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return domain.QuizAttempt{}, err
	}

	// The attempt is durable at this point; ranking is best effort.
	if err := s.leaderboard.Record(ctx, attempt); err != nil {
		log.Printf("record leaderboard for quiz %s: %v", quiz.ID, err)
		return attempt, nil
	}
	if s.hub.Subscribers(quiz.ID) > 0 {
		if err := s.publishLeaderboard(ctx, quiz.ID); err != nil {
			log.Printf("refresh leaderboard for quiz %s: %v", quiz.ID, err)
		}
	}
	return attempt, nil
}

// publishLeaderboard reads and broadcasts under the quiz's lock. Every attempt recorded
// before the lock was taken is in the snapshot, so the last publish is never stale.
func (s *QuizService) publishLeaderboard(ctx context.Context, quizID string) error {
	mu := s.refreshLock(quizID)
	mu.Lock()
	defer mu.Unlock()

	lb, err := s.leaderboardOf(ctx, quizID, s.size)
	if err != nil {
		return err
	}
	s.hub.Publish(lb)
	return nil
}

func (s *QuizService) refreshLock(quizID string) *sync.Mutex {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	mu, ok := s.refresh[quizID]
	if !ok {
		mu = &sync.Mutex{}
		s.refresh[quizID] = mu
	}
	return mu
}

// Leaderboard returns the best attempts of a visible quiz.
func (s *QuizService) Leaderboard(ctx context.Context, quizID string, limit int) (domain.Leaderboard, error) {
	if _, err := s.visibleQuiz(ctx, quizID); err != nil {
		return domain.Leaderboard{}, err
	}
	return s.leaderboardOf(ctx, quizID, limit)
}

func (s *QuizService) leaderboardOf(ctx context.Context, quizID string, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = s.size
	}
	entries, err := s.leaderboard.Top(ctx, quizID, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return domain.Leaderboard{
		QuizID:    quizID,
		Entries:   entries,
		UpdatedAt: s.now().UTC(),
	}, nil
}

// Subscribe returns a channel that receives leaderboard updates for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context, quizID string) (<-chan domain.Leaderboard, func(), error) {
	if _, err := s.visibleQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}
	initial, err := s.leaderboardOf(ctx, quizID, s.size)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(initial)
	return ch, cancel, nil
}

func (s *QuizService) visibleQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !quiz.Visible {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}
