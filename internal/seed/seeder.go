package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

type classroomStore interface {
	Upsert(ctx context.Context, classroom *models.Classroom) error
	DeleteAll(ctx context.Context) (int, error)
}

type studentStore interface {
	Upsert(ctx context.Context, student *models.Student) error
	DeleteAll(ctx context.Context) (int, error)
}

type attendanceStore interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (models.SaveOutcome, error)
	DeleteAll(ctx context.Context) (int, error)
}

// Result summarizes a completed seed run.
type Result struct {
	Classrooms        int
	Students          int
	AttendanceRecords int
}

// Seeder clears the store and repopulates it from the embedded dataset,
// plus one sample attendance record per classroom for yesterday.
type Seeder struct {
	classrooms classroomStore
	students   studentStore
	attendance attendanceStore
	logger     *zap.Logger
	progress   func(format string, args ...any)
}

// NewSeeder constructs a Seeder. progress may be nil.
func NewSeeder(classrooms classroomStore, students studentStore, attendance attendanceStore,
	logger *zap.Logger, progress func(format string, args ...any)) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = func(string, ...any) {}
	}
	return &Seeder{
		classrooms: classrooms,
		students:   students,
		attendance: attendance,
		logger:     logger,
		progress:   progress,
	}
}

// Run executes the full reseed.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.clear(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &Result{}

	s.progress("Agregando salones...")
	for _, c := range classrooms {
		classroom := &models.Classroom{
			ID:          c.ID,
			Name:        c.displayName(),
			RoomNumber:  c.RoomNumber,
			CourseType:  c.CourseType,
			CourseLevel: c.CourseLevel,
			CreatedAt:   now,
		}
		if err := s.classrooms.Upsert(ctx, classroom); err != nil {
			return nil, fmt.Errorf("seed classroom %s: %w", c.ID, err)
		}
		result.Classrooms++
		s.progress("  %s", classroom.Name)
	}

	s.progress("Agregando estudiantes...")
	for _, c := range classrooms {
		roster := rostersByClassroom[c.ID]
		for _, base := range roster {
			student := &models.Student{
				ID:          c.ID + "-" + base.ID,
				Name:        base.Name,
				Document:    base.Document,
				ClassroomID: c.ID,
				CreatedAt:   now,
			}
			if err := s.students.Upsert(ctx, student); err != nil {
				return nil, fmt.Errorf("seed student %s: %w", student.ID, err)
			}
			result.Students++
		}
		s.progress("  %s: %d estudiantes", c.ID, len(roster))
	}

	s.progress("Creando registros de asistencia de ejemplo...")
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	for _, c := range classrooms {
		roster := rostersByClassroom[c.ID]
		if len(roster) == 0 {
			continue
		}
		// Roughly 80% present, the tail of the roster absent.
		cut := len(roster) * 4 / 5
		present := make([]string, 0, cut)
		absent := make([]string, 0, len(roster)-cut)
		for i, base := range roster {
			id := c.ID + "-" + base.ID
			if i < cut {
				present = append(present, id)
			} else {
				absent = append(absent, id)
			}
		}
		record := &models.AttendanceRecord{
			ClassroomID: c.ID,
			Date:        yesterday,
			Present:     pq.StringArray(present),
			Absent:      pq.StringArray(absent),
		}
		if _, err := s.attendance.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("seed attendance %s: %w", c.ID, err)
		}
		result.AttendanceRecords++
		s.progress("  %s: %d presentes, %d ausentes", c.ID, len(present), len(absent))
	}

	s.logger.Info("seed completed",
		zap.Int("classrooms", result.Classrooms),
		zap.Int("students", result.Students),
		zap.Int("attendance_records", result.AttendanceRecords))
	return result, nil
}

func (s *Seeder) clear(ctx context.Context) error {
	s.progress("Limpiando datos existentes...")
	n, err := s.attendance.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}
	s.progress("  %d registros de asistencia eliminados", n)

	n, err = s.students.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear students: %w", err)
	}
	s.progress("  %d estudiantes eliminados", n)

	n, err = s.classrooms.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear classrooms: %w", err)
	}
	s.progress("  %d salones eliminados", n)
	return nil
}
