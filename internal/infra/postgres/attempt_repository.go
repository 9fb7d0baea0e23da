package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"campus-club-service/internal/domain"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts"`

	ID              string                    `bun:"id,pk"`
	QuizID          string                    `bun:"quiz_id,notnull"`
	ParticipantName string                    `bun:"participant_name,notnull"`
	Responses       []domain.QuestionResponse `bun:"responses,type:jsonb,notnull"`
	TotalMarks      float64                   `bun:"total_marks,notnull"`
	MaxMarks        float64                   `bun:"max_marks,notnull"`
	Percentage      float64                   `bun:"percentage,notnull"`
	CompletedAt     time.Time                 `bun:"completed_at,notnull"`
}

// AttemptRepository stores attempts in quiz_attempts. It also ranks them, so it can
// stand in as the leaderboard when Redis is not configured.
type AttemptRepository struct {
	db *bun.DB
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt domain.QuizAttempt) error {
	row := attemptRow{
		ID:              attempt.ID,
		QuizID:          attempt.QuizID,
		ParticipantName: attempt.ParticipantName,
		Responses:       attempt.Responses,
		TotalMarks:      attempt.TotalMarks,
		MaxMarks:        attempt.MaxMarks,
		Percentage:      attempt.Percentage,
		CompletedAt:     attempt.CompletedAt,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// Record is a no-op: the inserted row is already rankable.
func (r *AttemptRepository) Record(context.Context, domain.QuizAttempt) error {
	return nil
}

func (r *AttemptRepository) Top(ctx context.Context, quizID string, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []attemptRow
	err := r.db.NewSelect().
		Model(&rows).
		Column("id", "participant_name", "total_marks", "max_marks", "percentage", "completed_at").
		Where("quiz_id = ?", quizID).
		Order("percentage DESC", "completed_at ASC", "participant_name ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			AttemptID:       row.ID,
			ParticipantName: row.ParticipantName,
			TotalMarks:      row.TotalMarks,
			MaxMarks:        row.MaxMarks,
			Percentage:      row.Percentage,
			CompletedAt:     row.CompletedAt,
		})
	}
	return entries, nil
}
