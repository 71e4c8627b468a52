package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistenciafacil/asistencia-api/internal/service"
)

type stubExportService struct {
	result *service.ExportResult
	err    error
}

func (s *stubExportService) AbsenceReportFiles(ctx context.Context) (*service.ExportResult, error) {
	return s.result, s.err
}

func (s *stubExportService) SummaryReportFiles(ctx context.Context) (*service.ExportResult, error) {
	return s.result, s.err
}

func newReportRouter(svc *stubExportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewReportHandler(svc, nil)
	router.POST("/reports/absences", h.RunAbsences)
	router.POST("/reports/summary", h.RunSummary)
	return router
}

func TestRunAbsencesReturnsFiles(t *testing.T) {
	svc := &stubExportService{result: &service.ExportResult{
		Files: []string{"estudiantes_ausentes_2024-03-01.csv", "estudiantes_ausentes_2024-03-01.txt", "estudiantes_ausentes_2024-03-01.pdf"},
		Rows:  4,
	}}
	router := newReportRouter(svc)

	resp := perform(router, http.MethodPost, "/reports/absences", "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "estudiantes_ausentes_2024-03-01.csv")
	assert.Contains(t, resp.Body.String(), `"rows":4`)
}

func TestRunSummaryError(t *testing.T) {
	svc := &stubExportService{err: errors.New("store down")}
	router := newReportRouter(svc)

	resp := perform(router, http.MethodPost, "/reports/summary", "")

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
