package memory

import (
	"context"
	"sort"
	"sync"

	"campus-club-service/internal/domain"
)

// AttemptStore keeps attempts in process. It serves both as the attempt repository
// and as the leaderboard, ranking straight from the stored attempts.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string][]domain.QuizAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string][]domain.QuizAttempt)}
}

func (s *AttemptStore) Create(_ context.Context, attempt domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.QuizID] = append(s.attempts[attempt.QuizID], attempt)
	return nil
}

// Record is a no-op: Create already made the attempt rankable.
func (s *AttemptStore) Record(context.Context, domain.QuizAttempt) error {
	return nil
}

func (s *AttemptStore) Top(_ context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.attempts[quizID]))
	for _, a := range s.attempts[quizID] {
		entries = append(entries, a.Entry())
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Ranks(entries[j])
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Attempts returns a copy of everything stored for a quiz.
func (s *AttemptStore) Attempts(quizID string) []domain.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QuizAttempt(nil), s.attempts[quizID]...)
}
