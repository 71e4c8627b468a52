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

type noveltyService interface {
	List(ctx context.Context, classroomID string) ([]models.Novelty, error)
	Create(ctx context.Context, classroomID string, req service.CreateNoveltyRequest) (*models.Novelty, string, error)
	Delete(ctx context.Context, id string) (string, error)
}

// NoveltyHandler exposes the novelty endpoints.
type NoveltyHandler struct {
	novelties noveltyService
}

// NewNoveltyHandler constructs NoveltyHandler.
func NewNoveltyHandler(novelties noveltyService) *NoveltyHandler {
	return &NoveltyHandler{novelties: novelties}
}

// List returns a classroom's novelties, most recent first.
func (h *NoveltyHandler) List(c *gin.Context) {
	novelties, err := h.novelties.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, novelties)
}

// Create records a novelty for the classroom.
func (h *NoveltyHandler) Create(c *gin.Context) {
	var req service.CreateNoveltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos."))
		return
	}

	novelty, message, err := h.novelties.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, message, novelty)
}

// Delete removes a novelty by id.
func (h *NoveltyHandler) Delete(c *gin.Context) {
	message, err := h.novelties.Delete(c.Request.Context(), c.Param("noveltyId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, message, nil)
}
