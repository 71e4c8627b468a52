package models

import "time"

// Novelty is a free-text note about a student. The name and document are not
// validated against the roster: novelties may describe students outside the
// system.
type Novelty struct {
	ID              string    `db:"id" json:"id"`
	ClassroomID     string    `db:"classroom_id" json:"classroom_id"`
	StudentName     string    `db:"student_name" json:"student_name"`
	StudentDocument string    `db:"student_document" json:"student_document"`
	Reason          string    `db:"reason" json:"reason"`
	CreatedBy       *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
