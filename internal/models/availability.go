package models

// TeacherAvailability declares whether a teacher can teach a block in a period.
// Weekday is 0 when the record does not carry one.
type TeacherAvailability struct {
	ID          int64 `db:"id" json:"id"`
	TeacherID   int64 `db:"teacher_id" json:"teacher_id"`
	PeriodID    int64 `db:"period_id" json:"period_id"`
	Weekday     int   `db:"weekday" json:"weekday"`
	BlockID     int64 `db:"block_id" json:"block_id"`
	IsAvailable bool  `db:"is_available" json:"is_available"`
}
