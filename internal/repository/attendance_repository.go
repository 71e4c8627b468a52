package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

// AttendanceRepository handles persistence for the asistencias collection.
// Uniqueness of (classroom_id, date) is enforced by a database constraint so
// the upsert is atomic; callers never need a read-before-write.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassroom returns a classroom's attendance history sorted by date
// descending. Dates are zero-padded ISO strings so string order is date order.
func (r *AttendanceRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error) {
	query := `SELECT id, classroom_id, date, present, absent, created_at, updated_at
        FROM asistencias WHERE classroom_id = $1 ORDER BY date DESC`
	records := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, classroomID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByDate returns the unique record for (classroom, date); sql.ErrNoRows
// when missing.
func (r *AttendanceRepository) FindByDate(ctx context.Context, classroomID, date string) (*models.AttendanceRecord, error) {
	query := `SELECT id, classroom_id, date, present, absent, created_at, updated_at
        FROM asistencias WHERE classroom_id = $1 AND date = $2`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, classroomID, date); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or replaces the record for (classroom, date) in a single
// statement and reports which of the two happened.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (models.SaveOutcome, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := `INSERT INTO asistencias (id, classroom_id, date, present, absent, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (classroom_id, date)
DO UPDATE SET present = EXCLUDED.present, absent = EXCLUDED.absent, updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted`
	var inserted bool
	if err := r.db.GetContext(ctx, &inserted, query, record.ID, record.ClassroomID, record.Date,
		record.Present, record.Absent, record.CreatedAt, record.UpdatedAt); err != nil {
		return "", fmt.Errorf("upsert attendance: %w", err)
	}
	if inserted {
		return models.SaveOutcomeCreated, nil
	}
	return models.SaveOutcomeUpdated, nil
}

// UpdateAbsent rewrites the absent list of an existing record.
func (r *AttendanceRepository) UpdateAbsent(ctx context.Context, classroomID, date string, absent []string) error {
	query := `UPDATE asistencias SET absent = $3, updated_at = $4
        WHERE classroom_id = $1 AND date = $2`
	if _, err := r.db.ExecContext(ctx, query, classroomID, date, pq.StringArray(absent), time.Now().UTC()); err != nil {
		return fmt.Errorf("update absent list: %w", err)
	}
	return nil
}

// UpdateDate moves an existing record to a new calendar date leaving the
// present and absent sets untouched.
func (r *AttendanceRepository) UpdateDate(ctx context.Context, classroomID, oldDate, newDate string) error {
	query := `UPDATE asistencias SET date = $3, updated_at = $4
        WHERE classroom_id = $1 AND date = $2`
	if _, err := r.db.ExecContext(ctx, query, classroomID, oldDate, newDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("update attendance date: %w", err)
	}
	return nil
}

// DeleteByDate removes the record for (classroom, date).
func (r *AttendanceRepository) DeleteByDate(ctx context.Context, classroomID, date string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM asistencias WHERE classroom_id = $1 AND date = $2`, classroomID, date); err != nil {
		return fmt.Errorf("delete attendance day: %w", err)
	}
	return nil
}

// LastDate returns the most recent recorded date for a classroom, or the
// empty string when it has no history.
func (r *AttendanceRepository) LastDate(ctx context.Context, classroomID string) (string, error) {
	var last string
	if err := r.db.GetContext(ctx, &last, `SELECT COALESCE(MAX(date), '') FROM asistencias WHERE classroom_id = $1`, classroomID); err != nil {
		return "", fmt.Errorf("last attendance date: %w", err)
	}
	return last, nil
}

// DeleteAll clears the collection; used by administrative reseeds.
func (r *AttendanceRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM asistencias`)
	if err != nil {
		return 0, fmt.Errorf("clear attendance: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
