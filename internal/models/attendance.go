package models

import (
	"time"

	"github.com/lib/pq"
)

// DateLayout is the calendar-date wire format used across the system.
const DateLayout = "2006-01-02"

// AttendanceRecord holds one day's attendance for a classroom. At most one
// record exists per (classroom, date); the present and absent id sets are
// snapshots frozen at submission time and are never reconciled against later
// roster changes.
type AttendanceRecord struct {
	ID          string         `db:"id" json:"id"`
	ClassroomID string         `db:"classroom_id" json:"classroom_id"`
	Date        string         `db:"date" json:"date"`
	Present     pq.StringArray `db:"present" json:"present"`
	Absent      pq.StringArray `db:"absent" json:"absent"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HistoryEntry is an attendance record with absent student identities
// resolved against the roster for display.
type HistoryEntry struct {
	Date           string    `json:"date"`
	Present        []string  `json:"present"`
	Absent         []string  `json:"absent"`
	AbsentStudents []Student `json:"absent_students"`
}

// SaveOutcome distinguishes insert from update for caller messaging.
type SaveOutcome string

const (
	SaveOutcomeCreated SaveOutcome = "created"
	SaveOutcomeUpdated SaveOutcome = "updated"
)
