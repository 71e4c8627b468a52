package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	"github.com/asistenciafacil/asistencia-api/pkg/response"
)

type classroomService interface {
	ListWithInfo(ctx context.Context) ([]models.ClassroomInfo, error)
	Get(ctx context.Context, id string) (*models.Classroom, error)
}

type rosterService interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error)
}

// ClassroomHandler exposes the classroom listing and roster endpoints.
type ClassroomHandler struct {
	classrooms classroomService
	students   rosterService
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms classroomService, students rosterService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, students: students}
}

// List returns all classrooms with derived info, room-number sorted.
func (h *ClassroomHandler) List(c *gin.Context) {
	infos, err := h.classrooms.ListWithInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, infos)
}

// Get returns one classroom.
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroom, err := h.classrooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classroom)
}

// ListStudents returns a classroom's roster sorted by name.
func (h *ClassroomHandler) ListStudents(c *gin.Context) {
	students, err := h.students.ListByClassroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}
