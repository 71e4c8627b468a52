package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	"github.com/asistenciafacil/asistencia-api/pkg/export"
)

type reportRunner interface {
	AbsenceReport(ctx context.Context) ([]models.AbsenceRow, error)
	SummaryReport(ctx context.Context) ([]models.SummaryRow, error)
	ClassroomExport(ctx context.Context, classroom models.Classroom) ([]models.ClassroomExportRow, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Column headers, in the order the report files print them.
var (
	absenceHeaders = []string{"Salón", "Curso", "Nombre Estudiante", "Documento", "Total Ausencias", "Fechas de Ausencia", "Porcentaje Ausencia"}
	summaryHeaders = []string{"Salón", "Curso", "Total Estudiantes", "Días con Registro", "Total Registros", "Promedio Asistencia", "Última Fecha"}
	rawHeaders     = []string{"Fecha", "Estudiante", "Documento", "Estado", "Salón", "Curso"}
)

// ExportResult lists the files one export run produced.
type ExportResult struct {
	Files []string `json:"files"`
	Rows  int      `json:"rows"`
}

// ExportService renders report datasets into quoted CSV, readable TXT and
// tabular PDF files under the exports directory.
type ExportService struct {
	reports    reportRunner
	classrooms classroomLister
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportRunner, classrooms classroomLister, storage fileStorage, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{reports: reports, classrooms: classrooms, storage: storage, csv: csv, pdf: pdf, logger: logger}
}

// AbsenceReportFiles runs the absence report and writes its CSV, TXT and PDF
// renderings. No files are written when no student has absences.
func (s *ExportService) AbsenceReportFiles(ctx context.Context) (*ExportResult, error) {
	rows, err := s.reports.AbsenceReport(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ExportResult{}, nil
	}

	dataset := export.Dataset{Headers: absenceHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Salón":               row.Classroom,
			"Curso":               row.Course,
			"Nombre Estudiante":   row.StudentName,
			"Documento":           row.Document,
			"Total Ausencias":     strconv.Itoa(row.AbsenceCount),
			"Fechas de Ausencia":  strings.Join(row.AbsenceDates, ", "),
			"Porcentaje Ausencia": row.Percentage,
		})
	}

	dateString := time.Now().Format(models.DateLayout)
	base := "estudiantes_ausentes_" + dateString
	files, err := s.writeAll(base, dataset, absenceReportTXT(rows), "Reporte de Estudiantes Ausentes")
	if err != nil {
		return nil, err
	}
	return &ExportResult{Files: files, Rows: len(rows)}, nil
}

// SummaryReportFiles runs the per-classroom summary and writes its CSV, TXT
// and PDF renderings.
func (s *ExportService) SummaryReportFiles(ctx context.Context) (*ExportResult, error) {
	rows, err := s.reports.SummaryReport(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ExportResult{}, nil
	}

	dataset := export.Dataset{Headers: summaryHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Salón":               row.Classroom,
			"Curso":               row.Course,
			"Total Estudiantes":   strconv.Itoa(row.StudentCount),
			"Días con Registro":   strconv.Itoa(row.DaysRecorded),
			"Total Registros":     strconv.Itoa(row.TotalRecords),
			"Promedio Asistencia": row.AttendanceRate,
			"Última Fecha":        row.LastDate,
		})
	}

	files, err := s.writeAll("resumen_asistencia_general", dataset, summaryReportTXT(rows), "Resumen de Asistencia General")
	if err != nil {
		return nil, err
	}
	return &ExportResult{Files: files, Rows: len(rows)}, nil
}

// ExportClassroomAttendance writes one classroom's raw per-student rows as a
// quoted CSV named after the classroom. Classrooms without students or
// records produce no file.
func (s *ExportService) ExportClassroomAttendance(ctx context.Context, classroom models.Classroom) (*ExportResult, error) {
	rows, err := s.reports.ClassroomExport(ctx, classroom)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ExportResult{}, nil
	}

	dataset := export.Dataset{Headers: rawHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Fecha":      row.Date,
			"Estudiante": row.StudentName,
			"Documento":  row.Document,
			"Estado":     row.State,
			"Salón":      row.Classroom,
			"Curso":      row.Course,
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, err
	}
	filename := "asistencia_" + safeFileName(classroom.Name) + ".csv"
	if _, err := s.storage.Save(filename, payload); err != nil {
		return nil, err
	}
	return &ExportResult{Files: []string{filename}, Rows: len(rows)}, nil
}

// ExportAllClassrooms runs the raw export for every classroom. Per-classroom
// failures are logged and skipped.
func (s *ExportService) ExportAllClassrooms(ctx context.Context) (*ExportResult, error) {
	classrooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, err
	}

	combined := &ExportResult{}
	for _, classroom := range classrooms {
		result, err := s.ExportClassroomAttendance(ctx, classroom)
		if err != nil {
			s.logger.Warn("skip classroom in raw export", zap.String("classroom_id", classroom.ID), zap.Error(err))
			continue
		}
		combined.Files = append(combined.Files, result.Files...)
		combined.Rows += result.Rows
	}
	return combined, nil
}

// writeAll renders and saves the three encodings sharing a base filename.
func (s *ExportService) writeAll(base string, dataset export.Dataset, txt string, pdfTitle string) ([]string, error) {
	csvPayload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, err
	}
	pdfPayload, err := s.pdf.Render(dataset, pdfTitle)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, 3)
	for _, out := range []struct {
		name    string
		payload []byte
	}{
		{base + ".csv", csvPayload},
		{base + ".txt", []byte(txt)},
		{base + ".pdf", pdfPayload},
	} {
		if _, err := s.storage.Save(out.name, out.payload); err != nil {
			return nil, err
		}
		files = append(files, out.name)
	}
	return files, nil
}

// FilePath resolves an exported file's location on disk.
func (s *ExportService) FilePath(filename string) string {
	return s.storage.Path(filename)
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

func safeFileName(name string) string {
	cleaned := unsafeFileChars.ReplaceAllString(name, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, "_")
	return strings.ToLower(cleaned)
}

var spanishLongMonths = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func generationStamp(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d, %02d:%02d", t.Day(), spanishLongMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// absenceReportTXT renders the readable form: rows grouped by classroom with
// a trailing general-statistics block.
func absenceReportTXT(rows []models.AbsenceRow) string {
	if len(rows) == 0 {
		return "No se encontraron estudiantes con ausencias."
	}

	var b strings.Builder
	b.WriteString("REPORTE DE ESTUDIANTES AUSENTES\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	b.WriteString("Fecha de generación: " + generationStamp(time.Now()) + "\n\n")

	groups, order := groupAbsenceRows(rows)
	for _, classroom := range order {
		records := groups[classroom]
		b.WriteString("SALÓN: " + classroom + "\n")
		b.WriteString("CURSO: " + records[0].Course + "\n")
		b.WriteString("TOTAL ESTUDIANTES AUSENTES: " + strconv.Itoa(len(records)) + "\n")
		b.WriteString(strings.Repeat("-", 60) + "\n\n")
		for i, record := range records {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, record.StudentName))
			b.WriteString("   Documento: " + record.Document + "\n")
			b.WriteString("   Total Ausencias: " + strconv.Itoa(record.AbsenceCount) + "\n")
			b.WriteString("   Porcentaje Ausencia: " + record.Percentage + "\n")
			b.WriteString("   Fechas de Ausencia: " + strings.Join(record.AbsenceDates, ", ") + "\n\n")
		}
		b.WriteString("\n")
	}

	totalAbsences := 0
	for _, row := range rows {
		totalAbsences += row.AbsenceCount
	}
	average := float64(totalAbsences) / float64(len(rows))

	b.WriteString("ESTADÍSTICAS GENERALES\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("Total estudiantes con ausencias: " + strconv.Itoa(len(rows)) + "\n")
	b.WriteString("Total ausencias registradas: " + strconv.Itoa(totalAbsences) + "\n")
	b.WriteString(fmt.Sprintf("Promedio de ausencias por estudiante: %.1f\n", average))
	b.WriteString("Total salones con ausencias: " + strconv.Itoa(len(order)) + "\n")
	return b.String()
}

func groupAbsenceRows(rows []models.AbsenceRow) (map[string][]models.AbsenceRow, []string) {
	groups := make(map[string][]models.AbsenceRow)
	order := []string{}
	for _, row := range rows {
		if _, ok := groups[row.Classroom]; !ok {
			order = append(order, row.Classroom)
		}
		groups[row.Classroom] = append(groups[row.Classroom], row)
	}
	return groups, order
}

// summaryReportTXT renders the readable summary, one block per classroom
// with overall totals at the end.
func summaryReportTXT(rows []models.SummaryRow) string {
	var b strings.Builder
	b.WriteString("RESUMEN GENERAL DE ASISTENCIA\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	b.WriteString("Fecha de generación: " + generationStamp(time.Now()) + "\n\n")

	totalStudents := 0
	totalDays := 0
	for _, row := range rows {
		b.WriteString("SALÓN: " + row.Classroom + "\n")
		b.WriteString("   Curso: " + row.Course + "\n")
		b.WriteString("   Estudiantes: " + strconv.Itoa(row.StudentCount) + "\n")
		b.WriteString("   Días registrados: " + strconv.Itoa(row.DaysRecorded) + "\n")
		b.WriteString("   Total registros: " + strconv.Itoa(row.TotalRecords) + "\n")
		b.WriteString("   Promedio asistencia: " + row.AttendanceRate + "\n")
		b.WriteString("   Última fecha: " + row.LastDate + "\n\n")
		totalStudents += row.StudentCount
		totalDays += row.DaysRecorded
	}

	b.WriteString("ESTADÍSTICAS GENERALES\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("Total salones: " + strconv.Itoa(len(rows)) + "\n")
	b.WriteString("Total estudiantes: " + strconv.Itoa(totalStudents) + "\n")
	b.WriteString("Total días registrados: " + strconv.Itoa(totalDays) + "\n")
	return b.String()
}
