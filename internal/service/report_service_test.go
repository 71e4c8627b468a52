package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

type stubClassroomLister struct {
	classrooms []models.Classroom
	err        error
}

func (s *stubClassroomLister) List(ctx context.Context) ([]models.Classroom, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.classrooms, nil
}

type stubRosterByClassroom struct {
	rosters map[string][]models.Student
	errFor  string
}

func (s *stubRosterByClassroom) ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error) {
	if classroomID == s.errFor {
		return nil, errors.New("roster unavailable")
	}
	return s.rosters[classroomID], nil
}

type stubHistoryByClassroom struct {
	histories map[string][]models.AttendanceRecord
	errFor    string
}

func (s *stubHistoryByClassroom) ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error) {
	if classroomID == s.errFor {
		return nil, errors.New("history unavailable")
	}
	return s.histories[classroomID], nil
}

func testClassroom(id, name string) models.Classroom {
	return models.Classroom{ID: id, Name: name, CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "1A"}
}

func TestFormatSpanishDate(t *testing.T) {
	assert.Equal(t, "1 mar 2024", FormatSpanishDate("2024-03-01"))
	assert.Equal(t, "15 dic 2023", FormatSpanishDate("2023-12-15"))
	assert.Equal(t, "sin-fecha", FormatSpanishDate("sin-fecha"))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "66.7%", FormatPercentage(2, 3))
	assert.Equal(t, "50.0%", FormatPercentage(1, 2))
	assert.Equal(t, "100.0%", FormatPercentage(3, 3))
	assert.Equal(t, "0%", FormatPercentage(0, 0))
}

func TestAbsenceReportCountsAndSorts(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{testClassroom("salon-1", "SALÓN 101")}}
	students := &stubRosterByClassroom{rosters: map[string][]models.Student{
		"salon-1": roster("s1", "s2", "s3"),
	}}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{
		"salon-1": {
			{Date: "2024-03-08", Present: []string{"s1", "s3"}, Absent: []string{"s2"}},
			{Date: "2024-03-01", Present: []string{"s1"}, Absent: []string{"s2", "s3"}},
			{Date: "2024-03-15", Present: []string{"s2", "s3"}, Absent: []string{"s1"}},
		},
	}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.AbsenceReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// s2 has the most absences and leads; dates print ascending in Spanish.
	assert.Equal(t, "Estudiante s2", rows[0].StudentName)
	assert.Equal(t, 2, rows[0].AbsenceCount)
	assert.Equal(t, []string{"1 mar 2024", "8 mar 2024"}, rows[0].AbsenceDates)
	assert.Equal(t, "66.7%", rows[0].Percentage)
	assert.Equal(t, "CAPACITACIÓN DESTINO 1A", rows[0].Course)

	for _, row := range rows {
		assert.Greater(t, row.AbsenceCount, 0)
	}
}

func TestAbsenceReportSkipsStudentsWithoutAbsences(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{testClassroom("salon-1", "SALÓN 101")}}
	students := &stubRosterByClassroom{rosters: map[string][]models.Student{
		"salon-1": roster("s1", "s2"),
	}}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{
		"salon-1": {{Date: "2024-03-01", Present: []string{"s1", "s2"}, Absent: []string{}}},
	}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.AbsenceReport(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAbsenceReportSkipsFailingClassroom(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{
		testClassroom("salon-1", "SALÓN 101"),
		testClassroom("salon-2", "SALÓN 102"),
	}}
	students := &stubRosterByClassroom{
		rosters: map[string][]models.Student{
			"salon-1": roster("s1"),
			"salon-2": roster("s9"),
		},
		errFor: "salon-1",
	}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{
		"salon-1": {{Date: "2024-03-01", Absent: []string{"s1"}}},
		"salon-2": {{Date: "2024-03-01", Absent: []string{"s9"}}},
	}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.AbsenceReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SALÓN 102", rows[0].Classroom)
}

func TestAbsenceReportFatalOnClassroomEnumeration(t *testing.T) {
	classrooms := &stubClassroomLister{err: errors.New("store down")}
	svc := NewReportService(classrooms, &stubRosterByClassroom{}, &stubHistoryByClassroom{}, nil)

	_, err := svc.AbsenceReport(context.Background())
	require.Error(t, err)
}

func TestSummaryReportAggregates(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{testClassroom("salon-1", "SALÓN 101")}}
	students := &stubRosterByClassroom{rosters: map[string][]models.Student{
		"salon-1": roster("s1", "s2", "s3"),
	}}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{
		"salon-1": {
			{Date: "2024-03-08", Present: []string{"s1", "s3"}, Absent: []string{"s2"}},
			{Date: "2024-03-01", Present: []string{"s1"}, Absent: []string{"s2", "s3"}},
		},
	}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.SummaryReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 3, row.StudentCount)
	assert.Equal(t, 2, row.DaysRecorded)
	assert.Equal(t, 6, row.TotalRecords)
	assert.Equal(t, "50.0%", row.AttendanceRate)
	assert.Equal(t, "2024-03-08", row.LastDate)
}

func TestSummaryReportEmitsZeroRecordClassrooms(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{testClassroom("salon-1", "SALÓN 101")}}
	students := &stubRosterByClassroom{rosters: map[string][]models.Student{
		"salon-1": roster("s1", "s2"),
	}}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.SummaryReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2, row.StudentCount)
	assert.Equal(t, 0, row.DaysRecorded)
	assert.Equal(t, "0%", row.AttendanceRate)
	assert.Equal(t, "N/A", row.LastDate)
}

func TestClassroomExportRowsAndOrder(t *testing.T) {
	classrooms := &stubClassroomLister{}
	students := &stubRosterByClassroom{rosters: map[string][]models.Student{
		"salon-1": {
			{ID: "s1", Name: "Ana García", Document: "23456"},
			{ID: "s2", Name: "Juan Pérez", Document: "12345"},
		},
	}}
	history := &stubHistoryByClassroom{histories: map[string][]models.AttendanceRecord{
		"salon-1": {
			{Date: "2024-03-01", Present: []string{"s2"}, Absent: []string{"s1", "gone"}},
			{Date: "2024-03-08", Present: []string{"s1", "s2"}, Absent: []string{}},
		},
	}}
	svc := NewReportService(classrooms, students, history, nil)

	rows, err := svc.ClassroomExport(context.Background(), testClassroom("salon-1", "SALÓN 101"))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Newest date first, then by student name; ids off the roster drop out.
	assert.Equal(t, "2024-03-08", rows[0].Date)
	assert.Equal(t, "Ana García", rows[0].StudentName)
	assert.Equal(t, "2024-03-08", rows[1].Date)
	assert.Equal(t, "Juan Pérez", rows[1].StudentName)
	assert.Equal(t, "2024-03-01", rows[2].Date)

	states := map[string]string{}
	for _, row := range rows {
		states[row.Date+"/"+row.StudentName] = row.State
	}
	assert.Equal(t, models.ExportStateAbsent, states["2024-03-01/Ana García"])
	assert.Equal(t, models.ExportStatePresent, states["2024-03-01/Juan Pérez"])
}
