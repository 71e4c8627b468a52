package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistenciafacil/asistencia-api/internal/models"
	appErrors "github.com/asistenciafacil/asistencia-api/pkg/errors"
)

type stubClassroomRepo struct {
	classrooms []models.Classroom
}

func (s *stubClassroomRepo) List(ctx context.Context) ([]models.Classroom, error) {
	return s.classrooms, nil
}

func (s *stubClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	for _, classroom := range s.classrooms {
		if classroom.ID == id {
			copied := classroom
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubRosterCounter struct {
	counts map[string]int
}

func (s *stubRosterCounter) CountByClassroom(ctx context.Context, classroomID string) (int, error) {
	return s.counts[classroomID], nil
}

type stubLastDateFinder struct {
	dates map[string]string
}

func (s *stubLastDateFinder) LastDate(ctx context.Context, classroomID string) (string, error) {
	return s.dates[classroomID], nil
}

func TestListWithInfoEnrichesClassrooms(t *testing.T) {
	classrooms := &stubClassroomRepo{classrooms: []models.Classroom{
		{ID: "salon-1", Name: "SALÓN 101", RoomNumber: "101"},
		{ID: "salon-2", Name: "SALÓN 102", RoomNumber: "102"},
	}}
	counts := &stubRosterCounter{counts: map[string]int{"salon-1": 5, "salon-2": 8}}
	dates := &stubLastDateFinder{dates: map[string]string{"salon-1": "2024-03-08"}}

	svc := NewClassroomService(classrooms, counts, dates, nil, 0, nil)

	infos, err := svc.ListWithInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "salon-1", infos[0].ID)
	assert.Equal(t, 5, infos[0].StudentCount)
	assert.Equal(t, "2024-03-08", infos[0].LastAttendanceDate)

	// Classroom without records keeps an empty last date.
	assert.Equal(t, 8, infos[1].StudentCount)
	assert.Equal(t, "", infos[1].LastAttendanceDate)
}

func TestGetClassroom(t *testing.T) {
	classrooms := &stubClassroomRepo{classrooms: []models.Classroom{
		{ID: "salon-1", Name: "SALÓN 101"},
	}}
	svc := NewClassroomService(classrooms, &stubRosterCounter{}, &stubLastDateFinder{}, nil, 0, nil)

	classroom, err := svc.Get(context.Background(), "salon-1")
	require.NoError(t, err)
	assert.Equal(t, "SALÓN 101", classroom.Name)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
