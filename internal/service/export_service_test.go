package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	"github.com/asistenciafacil/asistencia-api/pkg/storage"
)

type stubReports struct {
	absences  []models.AbsenceRow
	summaries []models.SummaryRow
	raw       map[string][]models.ClassroomExportRow
	rawErrFor string
}

func (s *stubReports) AbsenceReport(ctx context.Context) ([]models.AbsenceRow, error) {
	return s.absences, nil
}

func (s *stubReports) SummaryReport(ctx context.Context) ([]models.SummaryRow, error) {
	return s.summaries, nil
}

func (s *stubReports) ClassroomExport(ctx context.Context, classroom models.Classroom) ([]models.ClassroomExportRow, error) {
	if classroom.ID == s.rawErrFor {
		return nil, errors.New("fetch failed")
	}
	return s.raw[classroom.ID], nil
}

func newExportFixture(t *testing.T, reports *stubReports, classrooms classroomLister) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	if classrooms == nil {
		classrooms = &stubClassroomLister{}
	}
	return NewExportService(reports, classrooms, store, nil, nil, nil), dir
}

func TestAbsenceReportFilesWritesThreeEncodings(t *testing.T) {
	reports := &stubReports{absences: []models.AbsenceRow{
		{
			Classroom:    "SALÓN 101",
			Course:       "CAPACITACIÓN DESTINO 1A",
			StudentName:  "Juan Pérez",
			Document:     "12345",
			AbsenceCount: 2,
			AbsenceDates: []string{"1 mar 2024", "8 mar 2024"},
			Percentage:   "66.7%",
		},
	}}
	svc, dir := newExportFixture(t, reports, nil)

	result, err := svc.AbsenceReportFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.Equal(t, 1, result.Rows)

	base := "estudiantes_ausentes_" + time.Now().Format(models.DateLayout)
	assert.Equal(t, []string{base + ".csv", base + ".txt", base + ".pdf"}, result.Files)

	csvPayload, err := os.ReadFile(filepath.Join(dir, base+".csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(csvPayload), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Salón,Curso,Nombre Estudiante,Documento,Total Ausencias,Fechas de Ausencia,Porcentaje Ausencia", lines[0])
	assert.Equal(t, `"SALÓN 101","CAPACITACIÓN DESTINO 1A","Juan Pérez","12345","2","1 mar 2024, 8 mar 2024","66.7%"`, lines[1])

	txtPayload, err := os.ReadFile(filepath.Join(dir, base+".txt"))
	require.NoError(t, err)
	txt := string(txtPayload)
	assert.Contains(t, txt, "REPORTE DE ESTUDIANTES AUSENTES")
	assert.Contains(t, txt, "SALÓN: SALÓN 101")
	assert.Contains(t, txt, "ESTADÍSTICAS GENERALES")
	assert.Contains(t, txt, "Total estudiantes con ausencias: 1")
	assert.Contains(t, txt, "Promedio de ausencias por estudiante: 2.0")

	pdfPayload, err := os.ReadFile(filepath.Join(dir, base+".pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfPayload), "%PDF"))
}

func TestAbsenceReportFilesEmptyWritesNothing(t *testing.T) {
	svc, dir := newExportFixture(t, &stubReports{}, nil)

	result, err := svc.AbsenceReportFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSummaryReportFiles(t *testing.T) {
	reports := &stubReports{summaries: []models.SummaryRow{
		{
			Classroom:      "SALÓN 101",
			Course:         "CAPACITACIÓN DESTINO 1A",
			StudentCount:   5,
			DaysRecorded:   2,
			TotalRecords:   10,
			AttendanceRate: "80.0%",
			LastDate:       "2024-03-08",
		},
		{
			Classroom:      "SALÓN 102",
			Course:         "CAPACITACIÓN DESTINO 1B",
			StudentCount:   4,
			AttendanceRate: "0%",
			LastDate:       "N/A",
		},
	}}
	svc, dir := newExportFixture(t, reports, nil)

	result, err := svc.SummaryReportFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"resumen_asistencia_general.csv",
		"resumen_asistencia_general.txt",
		"resumen_asistencia_general.pdf",
	}, result.Files)
	assert.Equal(t, 2, result.Rows)

	txtPayload, err := os.ReadFile(filepath.Join(dir, "resumen_asistencia_general.txt"))
	require.NoError(t, err)
	txt := string(txtPayload)
	assert.Contains(t, txt, "RESUMEN GENERAL DE ASISTENCIA")
	assert.Contains(t, txt, "Total salones: 2")
	assert.Contains(t, txt, "Total estudiantes: 9")
	assert.Contains(t, txt, "Última fecha: N/A")
}

func TestExportClassroomAttendanceFilename(t *testing.T) {
	classroom := models.Classroom{ID: "salon-1", Name: "SALÓN 101 - CAPACITACIÓN DESTINO 1A"}
	reports := &stubReports{raw: map[string][]models.ClassroomExportRow{
		"salon-1": {
			{
				Date:        "2024-03-01",
				StudentName: "Juan Pérez",
				Document:    "12345",
				State:       models.ExportStatePresent,
				Classroom:   classroom.Name,
				Course:      "CAPACITACIÓN DESTINO 1A",
			},
		},
	}}
	svc, dir := newExportFixture(t, reports, nil)

	result, err := svc.ExportClassroomAttendance(context.Background(), classroom)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	// Accents stripped, spaces collapsed to underscores, lowercased.
	assert.Equal(t, "asistencia_saln_101_-_capacitacin_destino_1a.csv", result.Files[0])

	payload, err := os.ReadFile(filepath.Join(dir, result.Files[0]))
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"Presente"`)
}

func TestExportAllClassroomsSkipsFailures(t *testing.T) {
	classrooms := &stubClassroomLister{classrooms: []models.Classroom{
		{ID: "salon-1", Name: "SALON 101"},
		{ID: "salon-2", Name: "SALON 102"},
	}}
	reports := &stubReports{
		raw: map[string][]models.ClassroomExportRow{
			"salon-2": {{Date: "2024-03-01", StudentName: "Ana", Document: "1", State: models.ExportStateAbsent, Classroom: "SALON 102"}},
		},
		rawErrFor: "salon-1",
	}
	svc, _ := newExportFixture(t, reports, classrooms)

	result, err := svc.ExportAllClassrooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"asistencia_salon_102.csv"}, result.Files)
	assert.Equal(t, 1, result.Rows)
}
