package migrations

import _ "embed"

//go:embed 0002_create_students.sql
var createStudentsSQL string

func init() {
	Migrations.MustRegister(execSQL(createStudentsSQL), execSQL(`DROP TABLE IF EXISTS students`))
}
