package models

import "time"

// Student belongs to exactly one classroom; there is no reassignment
// operation.
type Student struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Document    string    `db:"document" json:"document"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
