package memory

import (
	"context"
	"sync"

	"campus-club-service/internal/domain"
)

// TeamRepository is an in-memory app.TeamRepository with version checks.
type TeamRepository struct {
	mu     sync.RWMutex
	teams  map[string]domain.CompetitionTeam
	byName map[string]string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams:  make(map[string]domain.CompetitionTeam),
		byName: make(map[string]string),
	}
}

func (r *TeamRepository) Create(_ context.Context, team domain.CompetitionTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[team.Name]; taken {
		return domain.ErrDuplicateName
	}
	r.teams[team.ID] = team.Clone()
	r.byName[team.Name] = team.ID
	return nil
}

func (r *TeamRepository) Get(_ context.Context, teamID string) (domain.CompetitionTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[teamID]
	if !ok {
		return domain.CompetitionTeam{}, domain.ErrTeamNotFound
	}
	return team.Clone(), nil
}

func (r *TeamRepository) Update(_ context.Context, team domain.CompetitionTeam) (domain.CompetitionTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.teams[team.ID]
	if !ok {
		return domain.CompetitionTeam{}, domain.ErrTeamNotFound
	}
	if current.Version != team.Version {
		return domain.CompetitionTeam{}, domain.ErrConflict
	}
	team.Version++
	r.teams[team.ID] = team.Clone()
	return team, nil
}
