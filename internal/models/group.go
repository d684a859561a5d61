package models

// Group is the class section requesting an assignment.
type Group struct {
	ID                int64  `db:"id" json:"id"`
	Code              string `db:"code" json:"code"`
	EstimatedStudents int    `db:"estimated_students" json:"estimated_students"`
	PreferredShift    string `db:"preferred_shift" json:"preferred_shift"`
}
