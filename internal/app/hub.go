package app

import (
	"sync"

	"campus-club-service/internal/domain"
)

// LeaderboardHub fans leaderboard snapshots out to in-process subscribers, keyed by quiz.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe registers a channel that first receives initial and then every published snapshot.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[initial.QuizID]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.subscribers[initial.QuizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[initial.QuizID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.subscribers, initial.QuizID)
		}
	}
	return ch, cancel
}

// Publish delivers lb to every subscriber of its quiz without blocking.
// A subscriber that has not drained its buffer loses the oldest snapshot.
func (h *LeaderboardHub) Publish(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[lb.QuizID] {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

// Subscribers reports how many live subscribers a quiz has.
func (h *LeaderboardHub) Subscribers(quizID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[quizID])
}
