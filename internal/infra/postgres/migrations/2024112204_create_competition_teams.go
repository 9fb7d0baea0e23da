package migrations

import _ "embed"

//go:embed 0004_create_competition_teams.sql
var createCompetitionTeamsSQL string

func init() {
	Migrations.MustRegister(execSQL(createCompetitionTeamsSQL), execSQL(`DROP TABLE IF EXISTS competition_teams`))
}
