package domain

import "time"

// TeamStatus is the lifecycle phase of a competition team.
type TeamStatus string

const (
	TeamPending   TeamStatus = "pending"
	TeamActive    TeamStatus = "active"
	TeamDisbanded TeamStatus = "disbanded"
)

// MemberStatus is the invitation state of a single member entry.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberApproved MemberStatus = "approved"
	MemberRejected MemberStatus = "rejected"
)

// StudentIdentity is what the student directory knows about a student.
type StudentIdentity struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Email              string `json:"email" yaml:"email"`
	RegistrationNumber string `json:"registrationNumber,omitempty" yaml:"registrationNumber"`
}

// TeamMember is an invited student. The leader never appears as a member.
type TeamMember struct {
	Student  StudentIdentity `json:"student"`
	Status   MemberStatus    `json:"status"`
	JoinedAt *time.Time      `json:"joinedAt,omitempty"`
}

// CompetitionTeam groups a leader with invited members.
type CompetitionTeam struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Leader    StudentIdentity `json:"leader"`
	Members   []TeamMember    `json:"members"`
	Status    TeamStatus      `json:"status"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Member returns the index of the member entry for studentID, or -1.
func (t *CompetitionTeam) Member(studentID string) int {
	for i := range t.Members {
		if t.Members[i].Student.ID == studentID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so stores never share member slices with callers.
func (t CompetitionTeam) Clone() CompetitionTeam {
	out := t
	out.Members = make([]TeamMember, len(t.Members))
	for i, m := range t.Members {
		if m.JoinedAt != nil {
			joined := *m.JoinedAt
			m.JoinedAt = &joined
		}
		out.Members[i] = m
	}
	return out
}
