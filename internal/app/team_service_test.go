package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-club-service/internal/app"
	"campus-club-service/internal/domain"
	"campus-club-service/internal/infra/memory"
)

var (
	lena = domain.StudentIdentity{ID: "lead", Name: "Lena", Email: "lena@example.edu"}
	ana  = domain.StudentIdentity{ID: "ana", Name: "Ana", Email: "ana@example.edu", RegistrationNumber: "R-1"}
	ben  = domain.StudentIdentity{ID: "ben", Name: "Ben", Email: "ben@example.edu", RegistrationNumber: "R-2"}
)

func TestCreateTeamStatusDependsOnInvitees(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	solo, err := service.CreateTeam(ctx, "Solo", lena, nil)
	if err != nil {
		t.Fatalf("create solo: %v", err)
	}
	if solo.Status != domain.TeamActive {
		t.Fatalf("expected active, got %s", solo.Status)
	}

	duo, err := service.CreateTeam(ctx, "Duo", lena, []string{"ana"})
	if err != nil {
		t.Fatalf("create duo: %v", err)
	}
	if duo.Status != domain.TeamPending || len(duo.Members) != 1 {
		t.Fatalf("expected pending with one member, got %+v", duo)
	}
	if duo.Slug != "duo" || !duo.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("expected derived fields, got slug=%q created=%v", duo.Slug, duo.CreatedAt)
	}
}

func TestCreateTeamDropsUnknownAndDuplicateInvitees(t *testing.T) {
	service, _ := newTestTeamService()

	team, err := service.CreateTeam(context.Background(), "Crew", lena, []string{"ana", "ghost", "ana", "lead", " "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(team.Members) != 1 || team.Members[0].Student != ana {
		t.Fatalf("expected only ana resolved, got %+v", team.Members)
	}
	if team.Members[0].Status != domain.MemberPending {
		t.Fatalf("expected pending invitation, got %s", team.Members[0].Status)
	}
}

func TestCreateTeamRejectsDuplicateAndBlankNames(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	if _, err := service.CreateTeam(ctx, "Crew", lena, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.CreateTeam(ctx, "Crew", ana, nil); !errors.Is(err, domain.ErrDuplicateName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if _, err := service.CreateTeam(ctx, "crew", ana, nil); err != nil {
		t.Fatalf("expected case-sensitive names, got %v", err)
	}
	if _, err := service.CreateTeam(ctx, "   ", ana, nil); !errors.Is(err, domain.ErrInvalidTeamName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestCreateTeamPropagatesDirectoryFailure(t *testing.T) {
	service := app.NewTeamService(memory.NewTeamRepository(), brokenDirectory{})

	if _, err := service.CreateTeam(context.Background(), "Crew", lena, []string{"ana"}); err == nil {
		t.Fatalf("expected directory failure to abort creation")
	}
}

func TestInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	team, err := service.CreateTeam(ctx, "Trio", lena, []string{"ana", "ben"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := service.RespondToInvitation(ctx, team.ID, "ana", domain.MemberApproved); err != nil {
		t.Fatalf("ana: %v", err)
	}
	team, err = service.RespondToInvitation(ctx, team.ID, "ben", domain.MemberApproved)
	if err != nil {
		t.Fatalf("ben: %v", err)
	}
	if team.Status != domain.TeamActive {
		t.Fatalf("expected active after all approvals, got %s", team.Status)
	}
	if team.Version != 2 {
		t.Fatalf("expected two writes, got version %d", team.Version)
	}

	stored, err := service.GetTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.TeamActive || stored.Members[1].JoinedAt == nil {
		t.Fatalf("expected persisted activation, got %+v", stored)
	}
}

func TestRejectionLeavesTeamPending(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	team, _ := service.CreateTeam(ctx, "Trio", lena, []string{"ana", "ben"})
	if _, err := service.RespondToInvitation(ctx, team.ID, "ana", domain.MemberRejected); err != nil {
		t.Fatalf("ana: %v", err)
	}
	team, err := service.RespondToInvitation(ctx, team.ID, "ben", domain.MemberApproved)
	if err != nil {
		t.Fatalf("ben: %v", err)
	}
	if team.Status != domain.TeamPending {
		t.Fatalf("expected pending, got %s", team.Status)
	}
}

func TestLeaderCannotLeave(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	team, _ := service.CreateTeam(ctx, "Duo", lena, []string{"ana"})
	if _, err := service.LeaveTeam(ctx, team.ID, "lead"); !errors.Is(err, domain.ErrLeaderCannotLeave) {
		t.Fatalf("expected leader cannot leave, got %v", err)
	}
	team, err := service.LeaveTeam(ctx, team.ID, "ana")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(team.Members) != 0 || team.Status != domain.TeamPending {
		t.Fatalf("expected empty member list and untouched status, got %+v", team)
	}
}

func TestDisbandAndRemoveMember(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestTeamService()

	team, _ := service.CreateTeam(ctx, "Trio", lena, []string{"ana", "ben"})
	if _, err := service.RemoveMember(ctx, team.ID, "ana", "ben"); !errors.Is(err, domain.ErrNotLeader) {
		t.Fatalf("expected not leader, got %v", err)
	}
	team, err := service.RemoveMember(ctx, team.ID, "lead", "ben")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(team.Members) != 1 {
		t.Fatalf("expected one member left, got %+v", team.Members)
	}

	if _, err := service.DisbandTeam(ctx, team.ID, "ana"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	team, err = service.DisbandTeam(ctx, team.ID, "lead")
	if err != nil {
		t.Fatalf("disband: %v", err)
	}
	if team.Status != domain.TeamDisbanded {
		t.Fatalf("expected disbanded, got %s", team.Status)
	}
	if _, err := service.RespondToInvitation(ctx, team.ID, "ana", domain.MemberApproved); !errors.Is(err, domain.ErrTeamDisbanded) {
		t.Fatalf("expected disbanded team to be terminal, got %v", err)
	}
}

func TestMissingTeam(t *testing.T) {
	service, _ := newTestTeamService()
	if _, err := service.RespondToInvitation(context.Background(), "nope", "ana", domain.MemberApproved); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutationRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := &racingTeams{TeamRepository: memory.NewTeamRepository(), conflicts: 2}
	service := app.NewTeamServiceWithClock(repo, memory.NewStudentDirectory(ana, ben), fixedNow)

	team, err := service.CreateTeam(ctx, "Duo", lena, []string{"ana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	team, err = service.RespondToInvitation(ctx, team.ID, "ana", domain.MemberApproved)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if repo.updates != 3 || team.Status != domain.TeamActive {
		t.Fatalf("expected success on third write, got updates=%d status=%s", repo.updates, team.Status)
	}

	repo.conflicts = 5
	if _, err := service.LeaveTeam(ctx, team.ID, "ana"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict after exhausting retries, got %v", err)
	}
}

// racingTeams reports a conflict for the next n updates, as if another writer won.
type racingTeams struct {
	*memory.TeamRepository
	conflicts int
	updates   int
}

func (r *racingTeams) Update(ctx context.Context, team domain.CompetitionTeam) (domain.CompetitionTeam, error) {
	r.updates++
	if r.conflicts > 0 {
		r.conflicts--
		return domain.CompetitionTeam{}, domain.ErrConflict
	}
	return r.TeamRepository.Update(ctx, team)
}

type brokenDirectory struct{}

func (brokenDirectory) FindStudentByID(context.Context, string) (domain.StudentIdentity, error) {
	return domain.StudentIdentity{}, errors.New("connection refused")
}

func newTestTeamService() (*app.TeamService, *memory.TeamRepository) {
	repo := memory.NewTeamRepository()
	students := memory.NewStudentDirectory(lena, ana, ben)
	return app.NewTeamServiceWithClock(repo, students, func() time.Time { return fixedNow() }), repo
}
