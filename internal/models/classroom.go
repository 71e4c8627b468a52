package models

import "time"

// Classroom represents a salón. The identifier is a stable slug assigned at
// seed time (e.g. "capacitacion-destino-1a").
type Classroom struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	RoomNumber  string    `db:"room_number" json:"room_number"`
	CourseType  string    `db:"course_type" json:"course_type"`
	CourseLevel string    `db:"course_level" json:"course_level"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CourseLabel renders the course the way reports print it.
func (c Classroom) CourseLabel() string {
	return c.CourseType + " " + c.CourseLevel
}

// ClassroomInfo extends a classroom with derived attendance metadata for the
// admin listing.
type ClassroomInfo struct {
	Classroom
	StudentCount       int    `json:"student_count"`
	LastAttendanceDate string `json:"last_attendance_date,omitempty"`
}
