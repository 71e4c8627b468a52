package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
)

type attendanceRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error)
	FindByDate(ctx context.Context, classroomID, date string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (models.SaveOutcome, error)
	UpdateAbsent(ctx context.Context, classroomID, date string, absent []string) error
	UpdateDate(ctx context.Context, classroomID, oldDate, newDate string) error
	DeleteByDate(ctx context.Context, classroomID, date string) error
}

type studentRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error)
}

// User-facing messages for the interactive attendance flows.
const (
	msgAttendanceCreated = "Asistencia registrada correctamente."
	msgAttendanceUpdated = "Asistencia actualizada correctamente."
	msgAbsenceRemoved    = "Inasistencia eliminada correctamente."
	msgDayDeleted        = "Día de asistencia eliminado correctamente."
	msgDateChanged       = "Fecha actualizada correctamente."
	msgRecordNotFound    = "No se encontró el registro de asistencia para esta fecha."
	msgFutureDate        = "No se puede registrar asistencia para fechas futuras."
	msgInvalidDateFormat = "Formato de fecha inválido."
)

// AttendanceService coordinates the daily submission flow and the history
// edit operations for one classroom at a time.
type AttendanceService struct {
	attendance attendanceRepository
	students   studentRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance attendanceRepository, students studentRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{attendance: attendance, students: students, validator: validate, logger: logger}
}

// SubmitAttendanceRequest is the daily-submission payload: the ids the
// operator ticked as absent for the given date.
type SubmitAttendanceRequest struct {
	Date      string   `json:"date" validate:"required"`
	AbsentIDs []string `json:"absent_ids"`
}

// SaveResult reports the outcome of a submission.
type SaveResult struct {
	Outcome models.SaveOutcome       `json:"outcome"`
	Message string                   `json:"message"`
	Record  *models.AttendanceRecord `json:"record"`
}

// parseDate accepts exactly zero-padded YYYY-MM-DD strings.
func parseDate(raw string) (time.Time, bool) {
	t, err := time.ParseInLocation(models.DateLayout, raw, time.Local)
	if err != nil || t.Format(models.DateLayout) != raw {
		return time.Time{}, false
	}
	return t, true
}

// isFutureDate reports whether t falls strictly after the end of today,
// local time. Today itself is always allowed.
func isFutureDate(t time.Time) bool {
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return t.After(endOfToday)
}

// Reconcile derives a full attendance record from the roster and the
// submitted absent ids: present is the roster complement of absent. Absent
// ids that do not belong to the roster are dropped so present and absent
// always partition the roster. Pure; no side effects.
func Reconcile(roster []models.Student, absentIDs []string, date string) (*models.AttendanceRecord, error) {
	parsed, ok := parseDate(date)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgInvalidDateFormat)
	}
	if isFutureDate(parsed) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgFutureDate)
	}

	rosterIDs := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		rosterIDs[s.ID] = struct{}{}
	}

	absentSet := make(map[string]struct{}, len(absentIDs))
	absent := make([]string, 0, len(absentIDs))
	for _, id := range absentIDs {
		if _, inRoster := rosterIDs[id]; !inRoster {
			continue
		}
		if _, seen := absentSet[id]; seen {
			continue
		}
		absentSet[id] = struct{}{}
		absent = append(absent, id)
	}

	present := make([]string, 0, len(roster))
	for _, s := range roster {
		if _, isAbsent := absentSet[s.ID]; !isAbsent {
			present = append(present, s.ID)
		}
	}

	return &models.AttendanceRecord{
		Date:    date,
		Present: present,
		Absent:  absent,
	}, nil
}

// Save reconciles a submission against the classroom roster and upserts the
// resulting record for (classroom, date).
func (s *AttendanceService) Save(ctx context.Context, classroomID string, req SubmitAttendanceRequest) (*SaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "datos inválidos")
	}

	roster, err := s.students.ListByClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Error("load roster", zap.String("classroom_id", classroomID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Ocurrió un error al guardar la asistencia.")
	}

	record, err := Reconcile(roster, req.AbsentIDs, req.Date)
	if err != nil {
		return nil, err
	}
	record.ClassroomID = classroomID

	outcome, err := s.attendance.Upsert(ctx, record)
	if err != nil {
		s.logger.Error("save attendance", zap.String("classroom_id", classroomID), zap.String("date", req.Date), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Ocurrió un error al guardar la asistencia.")
	}

	message := msgAttendanceCreated
	if outcome == models.SaveOutcomeUpdated {
		message = msgAttendanceUpdated
	}
	s.logger.Info("attendance saved",
		zap.String("classroom_id", classroomID),
		zap.String("date", req.Date),
		zap.String("outcome", string(outcome)),
		zap.Int("absent", len(record.Absent)),
	)
	return &SaveResult{Outcome: outcome, Message: message, Record: record}, nil
}

// History returns the classroom's attendance records, newest date first,
// with each absent id resolved against the current roster.
func (s *AttendanceService) History(ctx context.Context, classroomID string) ([]models.HistoryEntry, error) {
	records, err := s.attendance.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener el historial de asistencia.")
	}
	roster, err := s.students.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener los estudiantes.")
	}

	byID := make(map[string]models.Student, len(roster))
	for _, student := range roster {
		byID[student.ID] = student
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, record := range records {
		entry := models.HistoryEntry{
			Date:           record.Date,
			Present:        record.Present,
			Absent:         record.Absent,
			AbsentStudents: make([]models.Student, 0, len(record.Absent)),
		}
		for _, id := range record.Absent {
			if student, ok := byID[id]; ok {
				entry.AbsentStudents = append(entry.AbsentStudents, student)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RemoveAbsence filters one student out of a day's absent list. Removing a
// student who is not on the list succeeds without changes; the student is
// implicitly present by omission either way.
func (s *AttendanceService) RemoveAbsence(ctx context.Context, classroomID, date, studentID string) (string, error) {
	record, err := s.attendance.FindByDate(ctx, classroomID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, msgRecordNotFound)
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar la inasistencia.")
	}

	absent := make([]string, 0, len(record.Absent))
	for _, id := range record.Absent {
		if id != studentID {
			absent = append(absent, id)
		}
	}
	if err := s.attendance.UpdateAbsent(ctx, classroomID, date, absent); err != nil {
		s.logger.Error("remove absence", zap.String("classroom_id", classroomID), zap.String("date", date), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar la inasistencia.")
	}
	return msgAbsenceRemoved, nil
}

// DeleteDay removes an entire day's record for the classroom.
func (s *AttendanceService) DeleteDay(ctx context.Context, classroomID, date string) (string, error) {
	if _, err := s.attendance.FindByDate(ctx, classroomID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, msgRecordNotFound)
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar el día de asistencia.")
	}
	if err := s.attendance.DeleteByDate(ctx, classroomID, date); err != nil {
		s.logger.Error("delete attendance day", zap.String("classroom_id", classroomID), zap.String("date", date), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar el día de asistencia.")
	}
	return msgDayDeleted, nil
}

// ChangeDate moves a day's record to a new calendar date. Validation order:
// future date, date format, source record existence, destination collision.
// Present and absent sets travel untouched.
func (s *AttendanceService) ChangeDate(ctx context.Context, classroomID, oldDate, newDate string) (string, error) {
	parsed, ok := parseDate(newDate)
	if ok && isFutureDate(parsed) {
		return "", appErrors.Clone(appErrors.ErrValidation, "No se puede cambiar la fecha a una fecha futura.")
	}
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, msgInvalidDateFormat)
	}

	if _, err := s.attendance.FindByDate(ctx, classroomID, oldDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, msgRecordNotFound)
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar la fecha.")
	}

	if _, err := s.attendance.FindByDate(ctx, classroomID, newDate); err == nil {
		message := fmt.Sprintf("Ya existe un registro de asistencia para el %s. Elimina o modifica ese registro primero.", newDate)
		return "", appErrors.Clone(appErrors.ErrConflict, message)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar la fecha.")
	}

	if err := s.attendance.UpdateDate(ctx, classroomID, oldDate, newDate); err != nil {
		s.logger.Error("change attendance date",
			zap.String("classroom_id", classroomID),
			zap.String("old_date", oldDate),
			zap.String("new_date", newDate),
			zap.Error(err),
		)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar la fecha.")
	}
	return msgDateChanged, nil
}
