// Package bootstrap wires the storage layer for the server and the CLI
// tools. The store driver from config decides whether repositories run on
// Postgres or on the in-memory store.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	"github.com/asistenciafacil/asistencia-api/internal/repository"
	"github.com/asistenciafacil/asistencia-api/pkg/config"
	"github.com/asistenciafacil/asistencia-api/pkg/database"
)

// ClassroomStore is the full classroom persistence surface.
type ClassroomStore interface {
	List(ctx context.Context) ([]models.Classroom, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	Upsert(ctx context.Context, classroom *models.Classroom) error
	DeleteAll(ctx context.Context) (int, error)
}

// StudentStore is the full student persistence surface.
type StudentStore interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error)
	CountByClassroom(ctx context.Context, classroomID string) (int, error)
	Upsert(ctx context.Context, student *models.Student) error
	DeleteAll(ctx context.Context) (int, error)
}

// AttendanceStore is the full attendance persistence surface.
type AttendanceStore interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error)
	FindByDate(ctx context.Context, classroomID, date string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (models.SaveOutcome, error)
	UpdateAbsent(ctx context.Context, classroomID, date string, absent []string) error
	UpdateDate(ctx context.Context, classroomID, oldDate, newDate string) error
	DeleteByDate(ctx context.Context, classroomID, date string) error
	LastDate(ctx context.Context, classroomID string) (string, error)
	DeleteAll(ctx context.Context) (int, error)
}

// NoveltyStore is the full novelty persistence surface.
type NoveltyStore interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Novelty, error)
	Create(ctx context.Context, novelty *models.Novelty) error
	Delete(ctx context.Context, id string) error
}

// Stores bundles the repositories behind their store interfaces. DB is nil
// when the memory driver is active.
type Stores struct {
	Classrooms ClassroomStore
	Students   StudentStore
	Attendance AttendanceStore
	Novelties  NoveltyStore

	DB *sqlx.DB
}

// Open connects the configured store driver and builds the repositories.
// For Postgres the schema is created when missing.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := repository.NewMemoryStore()
		return &Stores{
			Classrooms: repository.NewMemoryClassroomRepository(mem),
			Students:   repository.NewMemoryStudentRepository(mem),
			Attendance: repository.NewMemoryAttendanceRepository(mem),
			Novelties:  repository.NewMemoryNoveltyRepository(mem),
		}, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Classrooms: repository.NewClassroomRepository(db),
			Students:   repository.NewStudentRepository(db),
			Attendance: repository.NewAttendanceRepository(db),
			Novelties:  repository.NewNoveltyRepository(db),
			DB:         db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close releases the underlying connection when one exists.
func (s *Stores) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
