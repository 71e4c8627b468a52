package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asistenciafacil/asistencia-api/internal/service"
	"github.com/asistenciafacil/asistencia-api/pkg/response"
)

type exportService interface {
	AbsenceReportFiles(ctx context.Context) (*service.ExportResult, error)
	SummaryReportFiles(ctx context.Context) (*service.ExportResult, error)
}

// ReportHandler triggers batch report runs over the API.
type ReportHandler struct {
	exports exportService
	metrics *service.MetricsService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(exports exportService, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{exports: exports, metrics: metrics}
}

// RunAbsences generates the absent-students report files.
func (h *ReportHandler) RunAbsences(c *gin.Context) {
	start := time.Now()
	result, err := h.exports.AbsenceReportFiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveReportRun("absences", time.Since(start))
	}
	response.JSON(c, http.StatusOK, result)
}

// RunSummary generates the per-classroom summary report files.
func (h *ReportHandler) RunSummary(c *gin.Context) {
	start := time.Now()
	result, err := h.exports.SummaryReportFiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveReportRun("summary", time.Since(start))
	}
	response.JSON(c, http.StatusOK, result)
}
