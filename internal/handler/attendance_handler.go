package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	"github.com/asistenciafacil/asistencia-api/internal/service"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
	"github.com/asistenciafacil/asistencia-api/pkg/response"
)

type attendanceService interface {
	Save(ctx context.Context, classroomID string, req service.SubmitAttendanceRequest) (*service.SaveResult, error)
	History(ctx context.Context, classroomID string) ([]models.HistoryEntry, error)
	RemoveAbsence(ctx context.Context, classroomID, date, studentID string) (string, error)
	DeleteDay(ctx context.Context, classroomID, date string) (string, error)
	ChangeDate(ctx context.Context, classroomID, oldDate, newDate string) (string, error)
}

type infoCacheInvalidator interface {
	InvalidateInfoCache(ctx context.Context)
}

// AttendanceHandler exposes the daily submission and history edit endpoints.
type AttendanceHandler struct {
	attendance attendanceService
	cache      infoCacheInvalidator
	metrics    *service.MetricsService
}

// NewAttendanceHandler constructs AttendanceHandler. cache may be nil.
func NewAttendanceHandler(attendance attendanceService, cache infoCacheInvalidator, metrics *service.MetricsService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, cache: cache, metrics: metrics}
}

// invalidate drops the cached classroom listing after a write that changes
// attendance-derived info.
func (h *AttendanceHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.InvalidateInfoCache(c.Request.Context())
	}
}

// Submit records a day's attendance for a classroom.
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req service.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos."))
		return
	}

	result, err := h.attendance.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveSave(string(result.Outcome))
	}
	h.invalidate(c)

	status := http.StatusOK
	if result.Outcome == models.SaveOutcomeCreated {
		status = http.StatusCreated
	}
	response.Message(c, status, result.Message, result.Record)
}

// History returns a classroom's records, newest first.
func (h *AttendanceHandler) History(c *gin.Context) {
	entries, err := h.attendance.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// RemoveAbsence drops one student from one day's absent list.
func (h *AttendanceHandler) RemoveAbsence(c *gin.Context) {
	message, err := h.attendance.RemoveAbsence(c.Request.Context(), c.Param("id"), c.Param("date"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, message, nil)
}

// DeleteDay removes an entire day's record.
func (h *AttendanceHandler) DeleteDay(c *gin.Context) {
	message, err := h.attendance.DeleteDay(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c)
	response.Message(c, http.StatusOK, message, nil)
}

type changeDateRequest struct {
	NewDate string `json:"new_date" binding:"required"`
}

// ChangeDate moves a day's record to another date.
func (h *AttendanceHandler) ChangeDate(c *gin.Context) {
	var req changeDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos."))
		return
	}

	message, err := h.attendance.ChangeDate(c.Request.Context(), c.Param("id"), c.Param("date"), req.NewDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidate(c)
	response.Message(c, http.StatusOK, message, nil)
}
