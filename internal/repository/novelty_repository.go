package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

// NoveltyRepository handles persistence for the novedades collection.
type NoveltyRepository struct {
	db *sqlx.DB
}

// NewNoveltyRepository constructs the repository.
func NewNoveltyRepository(db *sqlx.DB) *NoveltyRepository {
	return &NoveltyRepository{db: db}
}

// ListByClassroom returns a classroom's novelties, most recent first.
func (r *NoveltyRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Novelty, error) {
	query := `SELECT id, classroom_id, student_name, student_document, reason, created_by, created_at
        FROM novedades WHERE classroom_id = $1 ORDER BY created_at DESC`
	novelties := []models.Novelty{}
	if err := r.db.SelectContext(ctx, &novelties, query, classroomID); err != nil {
		return nil, fmt.Errorf("list novelties: %w", err)
	}
	return novelties, nil
}

// Create inserts a novelty assigning an id and creation timestamp.
func (r *NoveltyRepository) Create(ctx context.Context, novelty *models.Novelty) error {
	if novelty.ID == "" {
		novelty.ID = uuid.NewString()
	}
	if novelty.CreatedAt.IsZero() {
		novelty.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO novedades (id, classroom_id, student_name, student_document, reason, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, novelty.ID, novelty.ClassroomID, novelty.StudentName,
		novelty.StudentDocument, novelty.Reason, novelty.CreatedBy, novelty.CreatedAt); err != nil {
		return fmt.Errorf("create novelty: %w", err)
	}
	return nil
}

// Delete removes a novelty by id.
func (r *NoveltyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM novedades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete novelty: %w", err)
	}
	return nil
}
