// Package migrations holds the schema, one embedded SQL file per step.
package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// execSQL wraps a statement as a migration step. MustRegister has to be called from
// the numbered file itself since bun names the migration after the calling file.
func execSQL(query string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
