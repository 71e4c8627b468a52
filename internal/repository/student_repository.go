package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

// StudentRepository handles persistence for the estudiantes collection.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByClassroom returns a classroom's roster sorted by student name.
func (r *StudentRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error) {
	query := `SELECT id, name, document, classroom_id, created_at
        FROM estudiantes WHERE classroom_id = $1 ORDER BY name ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, classroomID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// CountByClassroom returns the roster size for a classroom.
func (r *StudentRepository) CountByClassroom(ctx context.Context, classroomID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM estudiantes WHERE classroom_id = $1`, classroomID); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// Upsert writes a student under its explicit id.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	query := `INSERT INTO estudiantes (id, name, document, classroom_id, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, document = EXCLUDED.document, classroom_id = EXCLUDED.classroom_id`
	if _, err := r.db.ExecContext(ctx, query, student.ID, student.Name, student.Document,
		student.ClassroomID, student.CreatedAt); err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

// DeleteAll clears the collection; used by administrative reseeds.
func (r *StudentRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM estudiantes`)
	if err != nil {
		return 0, fmt.Errorf("clear students: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
