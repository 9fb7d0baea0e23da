package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"campus-club-service/internal/domain"
)

type studentRow struct {
	bun.BaseModel `bun:"table:students"`

	ID                 string `bun:"id,pk"`
	Name               string `bun:"name,notnull"`
	Email              string `bun:"email,notnull"`
	RegistrationNumber string `bun:"registration_number"`
}

// StudentDirectory resolves students from the students table.
type StudentDirectory struct {
	db *bun.DB
}

func NewStudentDirectory(db *bun.DB) *StudentDirectory {
	return &StudentDirectory{db: db}
}

func (d *StudentDirectory) FindStudentByID(ctx context.Context, studentID string) (domain.StudentIdentity, error) {
	row := new(studentRow)
	err := d.db.NewSelect().Model(row).Where("id = ?", studentID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StudentIdentity{}, domain.ErrStudentNotFound
	}
	if err != nil {
		return domain.StudentIdentity{}, fmt.Errorf("select student: %w", err)
	}
	return domain.StudentIdentity{
		ID:                 row.ID,
		Name:               row.Name,
		Email:              row.Email,
		RegistrationNumber: row.RegistrationNumber,
	}, nil
}

// Upsert inserts or refreshes a student record.
func (d *StudentDirectory) Upsert(ctx context.Context, s domain.StudentIdentity) error {
	row := &studentRow{ID: s.ID, Name: s.Name, Email: s.Email, RegistrationNumber: s.RegistrationNumber}
	_, err := d.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("registration_number = EXCLUDED.registration_number").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}
