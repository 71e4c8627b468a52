package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
)

type attendanceLister interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error)
}

type classroomLister interface {
	List(ctx context.Context) ([]models.Classroom, error)
}

// ReportService runs the batch reporting pipeline over every classroom.
// Classrooms are processed one at a time in room-number order; within one
// classroom the roster and history fetches run concurrently. A classroom
// whose fetches fail is logged and skipped so a single bad classroom cannot
// sink the whole run; only a failure to enumerate classrooms is fatal.
type ReportService struct {
	classrooms classroomLister
	students   studentRepository
	attendance attendanceLister
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(classrooms classroomLister, students studentRepository, attendance attendanceLister, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{classrooms: classrooms, students: students, attendance: attendance, logger: logger}
}

var spanishShortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// FormatSpanishDate renders an ISO date the way the reports print dates,
// e.g. "2024-03-01" -> "1 mar 2024". Unparseable input passes through.
func FormatSpanishDate(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", t.Day(), spanishShortMonths[t.Month()-1], t.Year())
}

// FormatPercentage renders count/total as a one-decimal percentage string;
// a zero total yields "0%" by convention.
func FormatPercentage(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// classroomData bundles the two per-classroom fetches.
type classroomData struct {
	students []models.Student
	history  []models.AttendanceRecord
}

// fetch loads a classroom's roster and history with both requests in flight
// at once; both are awaited before aggregation proceeds.
func (s *ReportService) fetch(ctx context.Context, classroomID string) (*classroomData, error) {
	var (
		wg         sync.WaitGroup
		data       classroomData
		sErr, aErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		data.students, sErr = s.students.ListByClassroom(ctx, classroomID)
	}()
	go func() {
		defer wg.Done()
		data.history, aErr = s.attendance.ListByClassroom(ctx, classroomID)
	}()
	wg.Wait()
	if sErr != nil {
		return nil, fmt.Errorf("fetch students: %w", sErr)
	}
	if aErr != nil {
		return nil, fmt.Errorf("fetch attendance: %w", aErr)
	}
	return &data, nil
}

// AbsenceReport builds one row per student with at least one recorded
// absence, per classroom in room-number order, students sorted by absence
// count descending within each classroom.
func (s *ReportService) AbsenceReport(ctx context.Context) ([]models.AbsenceRow, error) {
	classrooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener los salones.")
	}

	rows := []models.AbsenceRow{}
	for _, classroom := range classrooms {
		data, err := s.fetch(ctx, classroom.ID)
		if err != nil {
			s.logger.Warn("skip classroom in absence report", zap.String("classroom_id", classroom.ID), zap.Error(err))
			continue
		}
		rows = append(rows, buildAbsenceRows(classroom, data.students, data.history)...)
	}
	return rows, nil
}

func buildAbsenceRows(classroom models.Classroom, students []models.Student, history []models.AttendanceRecord) []models.AbsenceRow {
	if len(history) == 0 {
		return nil
	}

	type tally struct {
		count int
		dates []string
	}
	byStudent := make(map[string]*tally, len(students))
	order := make([]string, 0, len(students))
	for _, student := range students {
		byStudent[student.ID] = &tally{}
		order = append(order, student.ID)
	}
	studentsByID := make(map[string]models.Student, len(students))
	for _, student := range students {
		studentsByID[student.ID] = student
	}

	for _, record := range history {
		for _, absentID := range record.Absent {
			if t, ok := byStudent[absentID]; ok {
				t.count++
				t.dates = append(t.dates, record.Date)
			}
		}
	}

	flagged := make([]string, 0, len(order))
	for _, id := range order {
		if byStudent[id].count > 0 {
			flagged = append(flagged, id)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return byStudent[flagged[i]].count > byStudent[flagged[j]].count
	})

	rows := make([]models.AbsenceRow, 0, len(flagged))
	for _, id := range flagged {
		t := byStudent[id]
		student := studentsByID[id]
		sort.Strings(t.dates)
		formatted := make([]string, len(t.dates))
		for i, d := range t.dates {
			formatted[i] = FormatSpanishDate(d)
		}
		rows = append(rows, models.AbsenceRow{
			Classroom:    classroom.Name,
			Course:       classroom.CourseLabel(),
			StudentName:  student.Name,
			Document:     student.Document,
			AbsenceCount: t.count,
			AbsenceDates: formatted,
			Percentage:   FormatPercentage(t.count, len(history)),
		})
	}
	return rows
}

// SummaryReport builds one row per classroom: roster size, recorded days,
// summed present+absent tallies, the overall attendance rate, and the most
// recent date. Classrooms without records still emit a row.
func (s *ReportService) SummaryReport(ctx context.Context) ([]models.SummaryRow, error) {
	classrooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener los salones.")
	}

	rows := make([]models.SummaryRow, 0, len(classrooms))
	for _, classroom := range classrooms {
		data, err := s.fetch(ctx, classroom.ID)
		if err != nil {
			s.logger.Warn("skip classroom in summary report", zap.String("classroom_id", classroom.ID), zap.Error(err))
			continue
		}
		rows = append(rows, buildSummaryRow(classroom, data.students, data.history))
	}
	return rows, nil
}

func buildSummaryRow(classroom models.Classroom, students []models.Student, history []models.AttendanceRecord) models.SummaryRow {
	row := models.SummaryRow{
		Classroom:      classroom.Name,
		Course:         classroom.CourseLabel(),
		StudentCount:   len(students),
		DaysRecorded:   len(history),
		AttendanceRate: "0%",
		LastDate:       "N/A",
	}
	if len(history) == 0 {
		return row
	}

	totalPresent := 0
	total := 0
	for _, record := range history {
		totalPresent += len(record.Present)
		total += len(record.Present) + len(record.Absent)
	}
	row.TotalRecords = total
	row.AttendanceRate = FormatPercentage(totalPresent, total)
	// History is sorted date descending, so the first entry is the latest.
	row.LastDate = history[0].Date
	return row
}

// ClassroomExport builds the raw per-day per-student rows for one classroom,
// sorted by date descending then student name.
func (s *ReportService) ClassroomExport(ctx context.Context, classroom models.Classroom) ([]models.ClassroomExportRow, error) {
	data, err := s.fetch(ctx, classroom.ID)
	if err != nil {
		return nil, err
	}

	studentsByID := make(map[string]models.Student, len(data.students))
	for _, student := range data.students {
		studentsByID[student.ID] = student
	}

	rows := []models.ClassroomExportRow{}
	appendRows := func(record models.AttendanceRecord, ids []string, state string) {
		for _, id := range ids {
			student, ok := studentsByID[id]
			if !ok {
				continue
			}
			rows = append(rows, models.ClassroomExportRow{
				Date:        record.Date,
				StudentName: student.Name,
				Document:    student.Document,
				State:       state,
				Classroom:   classroom.Name,
				Course:      classroom.CourseLabel(),
			})
		}
	}
	for _, record := range data.history {
		appendRows(record, record.Present, models.ExportStatePresent)
		appendRows(record, record.Absent, models.ExportStateAbsent)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return strings.Compare(rows[i].StudentName, rows[j].StudentName) < 0
	})
	return rows, nil
}
