package app

import (
	"time"

	"campus-club-service/internal/domain"
)

// newTeam builds a team from already resolved invitees. The leader is never a member.
func newTeam(id, name string, leader domain.StudentIdentity, invitees []domain.StudentIdentity) domain.CompetitionTeam {
	members := make([]domain.TeamMember, 0, len(invitees))
	for _, student := range invitees {
		if student.ID == leader.ID {
			continue
		}
		members = append(members, domain.TeamMember{Student: student, Status: domain.MemberPending})
	}
	team := domain.CompetitionTeam{
		ID:      id,
		Name:    name,
		Leader:  leader,
		Members: members,
		Status:  domain.TeamPending,
	}
	team.Status = nextTeamStatus(team)
	return team
}

// nextTeamStatus is the single recompute rule: a pending team becomes active once every
// member has approved. Active and disbanded teams never move back to pending.
func nextTeamStatus(team domain.CompetitionTeam) domain.TeamStatus {
	if team.Status != domain.TeamPending {
		return team.Status
	}
	for _, m := range team.Members {
		if m.Status != domain.MemberApproved {
			return domain.TeamPending
		}
	}
	return domain.TeamActive
}

func respondToInvitation(team *domain.CompetitionTeam, studentID string, decision domain.MemberStatus, now time.Time) error {
	if decision != domain.MemberApproved && decision != domain.MemberRejected {
		return domain.ErrInvalidDecision
	}
	if team.Status == domain.TeamDisbanded {
		return domain.ErrTeamDisbanded
	}
	i := team.Member(studentID)
	if i < 0 || team.Members[i].Status != domain.MemberPending {
		return domain.ErrNotInvited
	}

	team.Members[i].Status = decision
	if decision == domain.MemberApproved {
		joined := now
		team.Members[i].JoinedAt = &joined
	}
	team.Status = nextTeamStatus(*team)
	return nil
}

// leaveTeam drops the member entry. Team status is left untouched.
func leaveTeam(team *domain.CompetitionTeam, studentID string) error {
	if studentID == team.Leader.ID {
		return domain.ErrLeaderCannotLeave
	}
	if team.Status == domain.TeamDisbanded {
		return domain.ErrTeamDisbanded
	}
	return dropMember(team, studentID)
}

func disbandTeam(team *domain.CompetitionTeam, requesterID string) error {
	if requesterID != team.Leader.ID {
		return domain.ErrNotLeader
	}
	team.Status = domain.TeamDisbanded
	return nil
}

// removeMember is leaveTeam on behalf of the leader.
func removeMember(team *domain.CompetitionTeam, requesterID, memberID string) error {
	if requesterID != team.Leader.ID {
		return domain.ErrNotLeader
	}
	if memberID == team.Leader.ID {
		return domain.ErrLeaderCannotLeave
	}
	if team.Status == domain.TeamDisbanded {
		return domain.ErrTeamDisbanded
	}
	return dropMember(team, memberID)
}

func dropMember(team *domain.CompetitionTeam, studentID string) error {
	i := team.Member(studentID)
	if i < 0 {
		return domain.ErrNotMember
	}
	team.Members = append(team.Members[:i], team.Members[i+1:]...)
	return nil
}

// stampTeam fills the derived fields every save needs.
func stampTeam(team *domain.CompetitionTeam, now time.Time) {
	team.Slug = domain.Slugify(team.Name)
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	team.UpdatedAt = now
}
