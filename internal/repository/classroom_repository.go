package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

// ClassroomRepository handles persistence for the salones collection.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns every classroom sorted by room number.
func (r *ClassroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	query := `SELECT id, name, room_number, course_type, course_level, created_at
        FROM salones ORDER BY room_number ASC`
	classrooms := []models.Classroom{}
	if err := r.db.SelectContext(ctx, &classrooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID returns a single classroom; sql.ErrNoRows when missing.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	query := `SELECT id, name, room_number, course_type, course_level, created_at
        FROM salones WHERE id = $1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Upsert writes a classroom under its explicit id, replacing any existing
// document. Seeding uses explicit slug ids.
func (r *ClassroomRepository) Upsert(ctx context.Context, classroom *models.Classroom) error {
	query := `INSERT INTO salones (id, name, room_number, course_type, course_level, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, room_number = EXCLUDED.room_number,
    course_type = EXCLUDED.course_type, course_level = EXCLUDED.course_level`
	if _, err := r.db.ExecContext(ctx, query, classroom.ID, classroom.Name, classroom.RoomNumber,
		classroom.CourseType, classroom.CourseLevel, classroom.CreatedAt); err != nil {
		return fmt.Errorf("upsert classroom: %w", err)
	}
	return nil
}

// DeleteAll clears the collection; used by administrative reseeds.
func (r *ClassroomRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM salones`)
	if err != nil {
		return 0, fmt.Errorf("clear classrooms: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
