package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-club-service/internal/domain"
)

// maxWriteAttempts bounds the read-modify-write retries on optimistic conflicts.
const maxWriteAttempts = 3

// TeamRepository stores competition teams. Update must fail with domain.ErrConflict
// when the stored version differs from team.Version, and bump the version on success.
type TeamRepository interface {
	Create(ctx context.Context, team domain.CompetitionTeam) error
	Get(ctx context.Context, teamID string) (domain.CompetitionTeam, error)
	Update(ctx context.Context, team domain.CompetitionTeam) (domain.CompetitionTeam, error)
}

// StudentDirectory resolves student ids. Unknown ids yield domain.ErrStudentNotFound.
type StudentDirectory interface {
	FindStudentByID(ctx context.Context, studentID string) (domain.StudentIdentity, error)
}

// TeamService drives the competition team lifecycle.
type TeamService struct {
	teams    TeamRepository
	students StudentDirectory
	now      func() time.Time
}

func NewTeamService(teams TeamRepository, students StudentDirectory) *TeamService {
	return NewTeamServiceWithClock(teams, students, time.Now)
}

// NewTeamServiceWithClock allows deterministic timestamps in tests.
func NewTeamServiceWithClock(teams TeamRepository, students StudentDirectory, now func() time.Time) *TeamService {
	return &TeamService{teams: teams, students: students, now: now}
}

// CreateTeam registers a team led by leader. Invitee ids the directory does not know are dropped.
func (s *TeamService) CreateTeam(ctx context.Context, name string, leader domain.StudentIdentity, inviteeIDs []string) (domain.CompetitionTeam, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.CompetitionTeam{}, domain.ErrInvalidTeamName
	}

	seen := map[string]struct{}{leader.ID: {}}
	invitees := make([]domain.StudentIdentity, 0, len(inviteeIDs))
	for _, id := range inviteeIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		student, err := s.students.FindStudentByID(ctx, id)
		if errors.Is(err, domain.ErrStudentNotFound) {
			continue
		}
		if err != nil {
			return domain.CompetitionTeam{}, fmt.Errorf("resolve invitee %s: %w", id, err)
		}
		invitees = append(invitees, student)
	}

	team := newTeam(uuid.NewString(), name, leader, invitees)
	stampTeam(&team, s.now().UTC())
	if err := s.teams.Create(ctx, team); err != nil {
		return domain.CompetitionTeam{}, err
	}
	return team, nil
}

// GetTeam loads a team by id.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (domain.CompetitionTeam, error) {
	return s.teams.Get(ctx, teamID)
}

// RespondToInvitation records an invitee's decision and activates the team once everyone approved.
func (s *TeamService) RespondToInvitation(ctx context.Context, teamID, studentID string, decision domain.MemberStatus) (domain.CompetitionTeam, error) {
	return s.mutate(ctx, teamID, func(team *domain.CompetitionTeam, now time.Time) error {
		return respondToInvitation(team, studentID, decision, now)
	})
}

// LeaveTeam removes studentID from the team. The leader cannot leave.
func (s *TeamService) LeaveTeam(ctx context.Context, teamID, studentID string) (domain.CompetitionTeam, error) {
	return s.mutate(ctx, teamID, func(team *domain.CompetitionTeam, _ time.Time) error {
		return leaveTeam(team, studentID)
	})
}

// DisbandTeam moves the team to its terminal state. Leader only.
func (s *TeamService) DisbandTeam(ctx context.Context, teamID, requesterID string) (domain.CompetitionTeam, error) {
	return s.mutate(ctx, teamID, func(team *domain.CompetitionTeam, _ time.Time) error {
		return disbandTeam(team, requesterID)
	})
}

// RemoveMember lets the leader drop a member entry.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, requesterID, memberID string) (domain.CompetitionTeam, error) {
	return s.mutate(ctx, teamID, func(team *domain.CompetitionTeam, _ time.Time) error {
		return removeMember(team, requesterID, memberID)
	})
}

// mutate runs one optimistic read-modify-write cycle, retrying when another writer won.
func (s *TeamService) mutate(ctx context.Context, teamID string, apply func(*domain.CompetitionTeam, time.Time) error) (domain.CompetitionTeam, error) {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var team domain.CompetitionTeam
		team, err = s.teams.Get(ctx, teamID)
		if err != nil {
			return domain.CompetitionTeam{}, err
		}

		now := s.now().UTC()
		if err := apply(&team, now); err != nil {
			return domain.CompetitionTeam{}, err
		}
		stampTeam(&team, now)

		var saved domain.CompetitionTeam
		saved, err = s.teams.Update(ctx, team)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.CompetitionTeam{}, err
		}
	}
	return domain.CompetitionTeam{}, err
}
