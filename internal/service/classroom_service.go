package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
)

type classroomRepository interface {
	List(ctx context.Context) ([]models.Classroom, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type rosterCounter interface {
	CountByClassroom(ctx context.Context, classroomID string) (int, error)
}

type lastDateFinder interface {
	LastDate(ctx context.Context, classroomID string) (string, error)
}

const classroomInfoCacheKey = "classrooms:info"

// ClassroomService serves the admin listing: every classroom enriched with
// its roster size and most recent attendance date. The derived listing is
// cached in Redis when a client is configured; cache failures fall back to
// the store.
type ClassroomService struct {
	classrooms classroomRepository
	students   rosterCounter
	attendance lastDateFinder
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewClassroomService constructs the classroom service. cache may be nil.
func NewClassroomService(classrooms classroomRepository, students rosterCounter, attendance lastDateFinder, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ClassroomService{
		classrooms: classrooms,
		students:   students,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// ListWithInfo returns classrooms in room-number order with student counts
// and last recorded dates.
func (s *ClassroomService) ListWithInfo(ctx context.Context) ([]models.ClassroomInfo, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	classrooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener información de los salones.")
	}

	infos := make([]models.ClassroomInfo, 0, len(classrooms))
	for _, classroom := range classrooms {
		count, err := s.students.CountByClassroom(ctx, classroom.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener información de los salones.")
		}
		lastDate, err := s.attendance.LastDate(ctx, classroom.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener información de los salones.")
		}
		infos = append(infos, models.ClassroomInfo{
			Classroom:          classroom,
			StudentCount:       count,
			LastAttendanceDate: lastDate,
		})
	}

	s.toCache(ctx, infos)
	return infos, nil
}

// Get returns one classroom by id.
func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.classrooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No se encontró el salón.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener el salón.")
	}
	return classroom, nil
}

// InvalidateInfoCache drops the cached listing after writes that change it.
func (s *ClassroomService) InvalidateInfoCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, classroomInfoCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate classroom info cache", zap.Error(err))
	}
}

func (s *ClassroomService) fromCache(ctx context.Context) []models.ClassroomInfo {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, classroomInfoCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("read classroom info cache", zap.Error(err))
		}
		return nil
	}
	var infos []models.ClassroomInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		s.logger.Warn("decode classroom info cache", zap.Error(err))
		return nil
	}
	return infos
}

func (s *ClassroomService) toCache(ctx context.Context, infos []models.ClassroomInfo) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(infos)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, classroomInfoCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("write classroom info cache", zap.Error(err))
	}
}
