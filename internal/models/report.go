package models

// AbsenceRow is one line of the absent-students report: a student of a
// classroom with at least one recorded absence.
type AbsenceRow struct {
	Classroom    string   `json:"classroom"`
	Course       string   `json:"course"`
	StudentName  string   `json:"student_name"`
	Document     string   `json:"document"`
	AbsenceCount int      `json:"absence_count"`
	AbsenceDates []string `json:"absence_dates"`
	Percentage   string   `json:"percentage"`
}

// SummaryRow aggregates a classroom's recorded attendance.
type SummaryRow struct {
	Classroom      string `json:"classroom"`
	Course         string `json:"course"`
	StudentCount   int    `json:"student_count"`
	DaysRecorded   int    `json:"days_recorded"`
	TotalRecords   int    `json:"total_records"`
	AttendanceRate string `json:"attendance_rate"`
	LastDate       string `json:"last_date"`
}

// ClassroomExportRow is one line of the raw per-classroom attendance export:
// a student's state on a recorded date.
type ClassroomExportRow struct {
	Date        string `json:"date"`
	StudentName string `json:"student_name"`
	Document    string `json:"document"`
	State       string `json:"state"`
	Classroom   string `json:"classroom"`
	Course      string `json:"course"`
}

// Raw export state labels.
const (
	ExportStatePresent = "Presente"
	ExportStateAbsent  = "Ausente"
)
