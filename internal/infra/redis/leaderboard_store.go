package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"campus-club-service/internal/domain"
)

// timeSlots is larger than any unix second this service will see.
const timeSlots = 1e10

// LeaderboardStore ranks attempts with one sorted set per quiz:
//
//	ZADD quiz:{quizID}:leaderboard {rank} {attemptID}
//	HSET quiz:{quizID}:entries {attemptID} {entry json}
//
// The rank packs percentage (hundredths) above an inverted completion second so that
// ZREVRANGE yields higher scores first and earlier finishers first among ties.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) Record(ctx context.Context, attempt domain.QuizAttempt) error {
	entry, err := json.Marshal(attempt.Entry())
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, entriesKey(attempt.QuizID), attempt.ID, entry)
	pipe.ZAdd(ctx, rankKey(attempt.QuizID), redis.Z{Score: rankScore(attempt.Percentage, attempt.CompletedAt), Member: attempt.ID})
	_, err = pipe.Exec(ctx)
	return err
}

// Top ranks with LeaderboardEntry.Ranks. The sorted set only narrows the candidates:
// scores carry whole seconds, so every member sharing the cutoff score is fetched and
// the ties are ordered after decoding.
func (s *LeaderboardStore) Top(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	head, err := s.client.ZRevRangeWithScores(ctx, rankKey(quizID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	ids := make([]string, 0, len(head))
	if len(head) < limit {
		for _, z := range head {
			ids = append(ids, z.Member.(string))
		}
	} else {
		cutoff := strconv.FormatFloat(head[len(head)-1].Score, 'f', -1, 64)
		ids, err = s.client.ZRevRangeByScore(ctx, rankKey(quizID), &redis.ZRangeBy{Min: cutoff, Max: "+inf"}).Result()
		if err != nil {
			return nil, err
		}
	}

	entries, err := s.entries(ctx, quizID, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ranks(entries[j])
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *LeaderboardStore) entries(ctx context.Context, quizID string, ids []string) ([]domain.LeaderboardEntry, error) {
	raws, err := s.client.HMGet(ctx, entriesKey(quizID), ids...).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(raws))
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("leaderboard entry %s missing", ids[i])
		}
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", ids[i], err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func rankScore(percentage float64, completedAt time.Time) float64 {
	return math.Round(percentage*100)*timeSlots + (timeSlots - float64(completedAt.Unix()))
}

func rankKey(quizID string) string {
	return "quiz:" + quizID + ":leaderboard"
}

func entriesKey(quizID string) string {
	return "quiz:" + quizID + ":entries"
}
