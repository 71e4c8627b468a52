package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
)

type noveltyRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Novelty, error)
	Create(ctx context.Context, novelty *models.Novelty) error
	Delete(ctx context.Context, id string) error
}

// NoveltyService manages ad-hoc notes about students. Names and documents
// are free text on purpose: a novelty may describe someone outside the
// roster, so there is no referential check against students.
type NoveltyService struct {
	novelties noveltyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoveltyService constructs the novelty service.
func NewNoveltyService(novelties noveltyRepository, validate *validator.Validate, logger *zap.Logger) *NoveltyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoveltyService{novelties: novelties, validator: validate, logger: logger}
}

// CreateNoveltyRequest is the novelty form payload.
type CreateNoveltyRequest struct {
	StudentName     string  `json:"student_name" validate:"required"`
	StudentDocument string  `json:"student_document" validate:"required"`
	Reason          string  `json:"reason" validate:"required"`
	CreatedBy       *string `json:"created_by"`
}

// List returns a classroom's novelties, most recent first.
func (s *NoveltyService) List(ctx context.Context, classroomID string) ([]models.Novelty, error) {
	novelties, err := s.novelties.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener las novedades.")
	}
	return novelties, nil
}

// Create records a new novelty for the classroom.
func (s *NoveltyService) Create(ctx context.Context, classroomID string, req CreateNoveltyRequest) (*models.Novelty, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos.")
	}

	novelty := &models.Novelty{
		ClassroomID:     classroomID,
		StudentName:     strings.TrimSpace(req.StudentName),
		StudentDocument: strings.TrimSpace(req.StudentDocument),
		Reason:          strings.TrimSpace(req.Reason),
		CreatedBy:       req.CreatedBy,
	}
	if err := s.novelties.Create(ctx, novelty); err != nil {
		s.logger.Error("create novelty", zap.String("classroom_id", classroomID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al guardar la novedad.")
	}
	return novelty, "Novedad registrada correctamente.", nil
}

// Delete removes a novelty by id. Novelties are never updated, only created
// and deleted.
func (s *NoveltyService) Delete(ctx context.Context, id string) (string, error) {
	if err := s.novelties.Delete(ctx, id); err != nil {
		s.logger.Error("delete novelty", zap.String("novelty_id", id), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar la novedad.")
	}
	return "Novedad eliminada correctamente.", nil
}
