package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema bootstrap run on every Postgres connect. The unique constraint on
// (classroom_id, date) is what makes the attendance upsert race-free.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS salones (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        room_number TEXT NOT NULL,
        course_type TEXT NOT NULL,
        course_level TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS estudiantes (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        document TEXT NOT NULL,
        classroom_id TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS asistencias (
        id TEXT PRIMARY KEY,
        classroom_id TEXT NOT NULL,
        date TEXT NOT NULL,
        present TEXT[] NOT NULL DEFAULT '{}',
        absent TEXT[] NOT NULL DEFAULT '{}',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE (classroom_id, date)
    )`,
	`CREATE TABLE IF NOT EXISTS novedades (
        id TEXT PRIMARY KEY,
        classroom_id TEXT NOT NULL,
        student_name TEXT NOT NULL,
        student_document TEXT NOT NULL,
        reason TEXT NOT NULL,
        created_by TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_estudiantes_classroom ON estudiantes (classroom_id)`,
	`CREATE INDEX IF NOT EXISTS idx_novedades_classroom ON novedades (classroom_id)`,
}

// EnsureSchema creates the collections when they do not yet exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
