package memory

import (
	"context"
	"sync"

	"campus-club-service/internal/domain"
)

// StudentDirectory is a map-backed app.StudentDirectory.
type StudentDirectory struct {
	mu       sync.RWMutex
	students map[string]domain.StudentIdentity
}

func NewStudentDirectory(students ...domain.StudentIdentity) *StudentDirectory {
	d := &StudentDirectory{students: make(map[string]domain.StudentIdentity, len(students))}
	for _, s := range students {
		d.students[s.ID] = s
	}
	return d
}

func (d *StudentDirectory) FindStudentByID(_ context.Context, studentID string) (domain.StudentIdentity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.students[studentID]
	if !ok {
		return domain.StudentIdentity{}, domain.ErrStudentNotFound
	}
	return s, nil
}

// Upsert adds or replaces a student.
func (d *StudentDirectory) Upsert(_ context.Context, s domain.StudentIdentity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.students[s.ID] = s
	return nil
}
