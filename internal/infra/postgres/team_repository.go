package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"campus-club-service/internal/domain"
)

type teamRow struct {
	bun.BaseModel `bun:"table:competition_teams"`

	ID        string                 `bun:"id,pk"`
	Name      string                 `bun:"name,notnull"`
	Slug      string                 `bun:"slug,notnull"`
	Leader    domain.StudentIdentity `bun:"leader,type:jsonb,notnull"`
	Members   []domain.TeamMember    `bun:"members,type:jsonb,notnull"`
	Status    string                 `bun:"status,notnull"`
	Version   int64                  `bun:"version,notnull"`
	CreatedAt time.Time              `bun:"created_at,notnull"`
	UpdatedAt time.Time              `bun:"updated_at,notnull"`
}

func toTeamRow(t domain.CompetitionTeam) *teamRow {
	members := t.Members
	if members == nil {
		members = []domain.TeamMember{}
	}
	return &teamRow{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Leader:    t.Leader,
		Members:   members,
		Status:    string(t.Status),
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (row teamRow) team() domain.CompetitionTeam {
	return domain.CompetitionTeam{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		Leader:    row.Leader,
		Members:   row.Members,
		Status:    domain.TeamStatus(row.Status),
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// TeamRepository keeps one row per team; members live in a JSONB column so every
// transition is a single-row write guarded by the version column.
type TeamRepository struct {
	db *bun.DB
}

func NewTeamRepository(db *bun.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.CompetitionTeam) error {
	_, err := r.db.NewInsert().Model(toTeamRow(team)).Exec(ctx)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Get(ctx context.Context, teamID string) (domain.CompetitionTeam, error) {
	row := new(teamRow)
	err := r.db.NewSelect().Model(row).Where("id = ?", teamID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CompetitionTeam{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.CompetitionTeam{}, fmt.Errorf("select team: %w", err)
	}
	return row.team(), nil
}

func (r *TeamRepository) Update(ctx context.Context, team domain.CompetitionTeam) (domain.CompetitionTeam, error) {
	row := toTeamRow(team)
	row.Version = team.Version + 1
	res, err := r.db.NewUpdate().
		Model(row).
		Column("members", "status", "slug", "version", "updated_at").
		Where("id = ?", team.ID).
		Where("version = ?", team.Version).
		Exec(ctx)
	if err != nil {
		return domain.CompetitionTeam{}, fmt.Errorf("update team: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.CompetitionTeam{}, fmt.Errorf("update team: %w", err)
	}
	if n == 0 {
		if _, err := r.Get(ctx, team.ID); err != nil {
			return domain.CompetitionTeam{}, err
		}
		return domain.CompetitionTeam{}, domain.ErrConflict
	}
	return row.team(), nil
}
