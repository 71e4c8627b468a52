package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asistenciafacil/asistencia-api/internal/models"
)

// MemoryStore keeps all four collections in process-wide maps guarded by a
// single mutex. It backs the demo mode and the service tests; the attendance
// table is keyed by the composite (classroom, date) so the upsert is atomic
// here too.
type MemoryStore struct {
	mu         sync.RWMutex
	classrooms map[string]models.Classroom
	students   map[string]models.Student
	attendance map[string]models.AttendanceRecord
	novelties  map[string]models.Novelty
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		classrooms: make(map[string]models.Classroom),
		students:   make(map[string]models.Student),
		attendance: make(map[string]models.AttendanceRecord),
		novelties:  make(map[string]models.Novelty),
	}
}

func attendanceKey(classroomID, date string) string {
	return classroomID + "_" + date
}

// MemoryClassroomRepository serves the salones collection from a MemoryStore.
type MemoryClassroomRepository struct{ store *MemoryStore }

// NewMemoryClassroomRepository constructs the repository.
func NewMemoryClassroomRepository(store *MemoryStore) *MemoryClassroomRepository {
	return &MemoryClassroomRepository{store: store}
}

func (r *MemoryClassroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	classrooms := make([]models.Classroom, 0, len(r.store.classrooms))
	for _, c := range r.store.classrooms {
		classrooms = append(classrooms, c)
	}
	sort.Slice(classrooms, func(i, j int) bool {
		return classrooms[i].RoomNumber < classrooms[j].RoomNumber
	})
	return classrooms, nil
}

func (r *MemoryClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.classrooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *MemoryClassroomRepository) Upsert(ctx context.Context, classroom *models.Classroom) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.classrooms[classroom.ID] = *classroom
	return nil
}

func (r *MemoryClassroomRepository) DeleteAll(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := len(r.store.classrooms)
	r.store.classrooms = make(map[string]models.Classroom)
	return n, nil
}

// MemoryStudentRepository serves the estudiantes collection from a MemoryStore.
type MemoryStudentRepository struct{ store *MemoryStore }

// NewMemoryStudentRepository constructs the repository.
func NewMemoryStudentRepository(store *MemoryStore) *MemoryStudentRepository {
	return &MemoryStudentRepository{store: store}
}

func (r *MemoryStudentRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	students := []models.Student{}
	for _, s := range r.store.students {
		if s.ClassroomID == classroomID {
			students = append(students, s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (r *MemoryStudentRepository) CountByClassroom(ctx context.Context, classroomID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, s := range r.store.students {
		if s.ClassroomID == classroomID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryStudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.students[student.ID] = *student
	return nil
}

func (r *MemoryStudentRepository) DeleteAll(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := len(r.store.students)
	r.store.students = make(map[string]models.Student)
	return n, nil
}

// MemoryAttendanceRepository serves the asistencias collection from a
// MemoryStore.
type MemoryAttendanceRepository struct{ store *MemoryStore }

// NewMemoryAttendanceRepository constructs the repository.
func NewMemoryAttendanceRepository(store *MemoryStore) *MemoryAttendanceRepository {
	return &MemoryAttendanceRepository{store: store}
}

func (r *MemoryAttendanceRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.AttendanceRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	records := []models.AttendanceRecord{}
	for _, rec := range r.store.attendance {
		if rec.ClassroomID == classroomID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

func (r *MemoryAttendanceRepository) FindByDate(ctx context.Context, classroomID, date string) (*models.AttendanceRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.attendance[attendanceKey(classroomID, date)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (r *MemoryAttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (models.SaveOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now().UTC()
	key := attendanceKey(record.ClassroomID, record.Date)
	existing, ok := r.store.attendance[key]
	if ok {
		existing.Present = record.Present
		existing.Absent = record.Absent
		existing.UpdatedAt = now
		r.store.attendance[key] = existing
		*record = existing
		return models.SaveOutcomeUpdated, nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	r.store.attendance[key] = *record
	return models.SaveOutcomeCreated, nil
}

func (r *MemoryAttendanceRepository) UpdateAbsent(ctx context.Context, classroomID, date string, absent []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := attendanceKey(classroomID, date)
	rec, ok := r.store.attendance[key]
	if !ok {
		return sql.ErrNoRows
	}
	rec.Absent = absent
	rec.UpdatedAt = time.Now().UTC()
	r.store.attendance[key] = rec
	return nil
}

func (r *MemoryAttendanceRepository) UpdateDate(ctx context.Context, classroomID, oldDate, newDate string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	oldKey := attendanceKey(classroomID, oldDate)
	rec, ok := r.store.attendance[oldKey]
	if !ok {
		return sql.ErrNoRows
	}
	delete(r.store.attendance, oldKey)
	rec.Date = newDate
	rec.UpdatedAt = time.Now().UTC()
	r.store.attendance[attendanceKey(classroomID, newDate)] = rec
	return nil
}

func (r *MemoryAttendanceRepository) DeleteByDate(ctx context.Context, classroomID, date string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.attendance, attendanceKey(classroomID, date))
	return nil
}

func (r *MemoryAttendanceRepository) LastDate(ctx context.Context, classroomID string) (string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	last := ""
	for _, rec := range r.store.attendance {
		if rec.ClassroomID == classroomID && strings.Compare(rec.Date, last) > 0 {
			last = rec.Date
		}
	}
	return last, nil
}

func (r *MemoryAttendanceRepository) DeleteAll(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := len(r.store.attendance)
	r.store.attendance = make(map[string]models.AttendanceRecord)
	return n, nil
}

// MemoryNoveltyRepository serves the novedades collection from a MemoryStore.
type MemoryNoveltyRepository struct{ store *MemoryStore }

// NewMemoryNoveltyRepository constructs the repository.
func NewMemoryNoveltyRepository(store *MemoryStore) *MemoryNoveltyRepository {
	return &MemoryNoveltyRepository{store: store}
}

func (r *MemoryNoveltyRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Novelty, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	novelties := []models.Novelty{}
	for _, n := range r.store.novelties {
		if n.ClassroomID == classroomID {
			novelties = append(novelties, n)
		}
	}
	sort.Slice(novelties, func(i, j int) bool {
		return novelties[i].CreatedAt.After(novelties[j].CreatedAt)
	})
	return novelties, nil
}

func (r *MemoryNoveltyRepository) Create(ctx context.Context, novelty *models.Novelty) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if novelty.ID == "" {
		novelty.ID = uuid.NewString()
	}
	if novelty.CreatedAt.IsZero() {
		novelty.CreatedAt = time.Now().UTC()
	}
	r.store.novelties[novelty.ID] = *novelty
	return nil
}

func (r *MemoryNoveltyRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.novelties, id)
	return nil
}
