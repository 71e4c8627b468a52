package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryListByClassroom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "classroom_id", "date", "present", "absent", "created_at", "updated_at"}).
		AddRow("a2", "salon-1", "2024-03-08", pq.StringArray{"s1", "s2"}, pq.StringArray{}, time.Now(), time.Now()).
		AddRow("a1", "salon-1", "2024-03-01", pq.StringArray{"s1"}, pq.StringArray{"s2"}, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM asistencias WHERE classroom_id = $1 ORDER BY date DESC")).
		WithArgs("salon-1").
		WillReturnRows(rows)

	records, err := repo.ListByClassroom(context.Background(), "salon-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-08", records[0].Date)
	assert.Equal(t, []string{"s2"}, []string(records[1].Absent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertReportsOutcome(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (classroom_id, date)")).
		WithArgs(sqlmock.AnyArg(), "salon-1", "2024-03-01", pq.StringArray{"s1"}, pq.StringArray{"s2"}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	record := &models.AttendanceRecord{
		ClassroomID: "salon-1",
		Date:        "2024-03-01",
		Present:     pq.StringArray{"s1"},
		Absent:      pq.StringArray{"s2"},
	}
	outcome, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, models.SaveOutcomeCreated, outcome)
	assert.NotEmpty(t, record.ID)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (classroom_id, date)")).
		WithArgs(record.ID, "salon-1", "2024-03-01", pq.StringArray{"s1"}, pq.StringArray{"s2"}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	outcome, err = repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, models.SaveOutcomeUpdated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryFindByDateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE classroom_id = $1 AND date = $2")).
		WithArgs("salon-1", "2024-03-01").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByDate(context.Background(), "salon-1", "2024-03-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdateAbsent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE asistencias SET absent = $3")).
		WithArgs("salon-1", "2024-03-01", pq.StringArray{"s2"}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateAbsent(context.Background(), "salon-1", "2024-03-01", []string{"s2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdateDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE asistencias SET date = $3")).
		WithArgs("salon-1", "2024-03-01", "2024-03-02", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateDate(context.Background(), "salon-1", "2024-03-01", "2024-03-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryLastDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(date), '') FROM asistencias WHERE classroom_id = $1")).
		WithArgs("salon-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("2024-03-08"))

	last, err := repo.LastDate(context.Background(), "salon-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", last)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(date), '') FROM asistencias WHERE classroom_id = $1")).
		WithArgs("salon-2").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(""))

	last, err = repo.LastDate(context.Background(), "salon-2")
	require.NoError(t, err)
	assert.Equal(t, "", last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryListOrdersByRoomNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "room_number", "course_type", "course_level", "created_at"}).
		AddRow("salon-1", "SALÓN 101 - CAPACITACIÓN DESTINO 1A", "101", "CAPACITACIÓN DESTINO", "1A", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM salones ORDER BY room_number ASC")).
		WillReturnRows(rows)

	classrooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classrooms, 1)
	assert.Equal(t, "CAPACITACIÓN DESTINO 1A", classrooms[0].CourseLabel())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpsertAndCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO estudiantes")).
		WithArgs("salon-1-s1", "Juan Pérez", "12345", "salon-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Student{
		ID:          "salon-1-s1",
		Name:        "Juan Pérez",
		Document:    "12345",
		ClassroomID: "salon-1",
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM estudiantes WHERE classroom_id = $1")).
		WithArgs("salon-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountByClassroom(context.Background(), "salon-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoveltyRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNoveltyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO novedades")).
		WithArgs(sqlmock.AnyArg(), "salon-1", "Juan Pérez", "12345", "Cita médica", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	novelty := &models.Novelty{
		ClassroomID:     "salon-1",
		StudentName:     "Juan Pérez",
		StudentDocument: "12345",
		Reason:          "Cita médica",
	}
	require.NoError(t, repo.Create(context.Background(), novelty))
	assert.NotEmpty(t, novelty.ID)
	assert.False(t, novelty.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
