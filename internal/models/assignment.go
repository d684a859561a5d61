package models

import "time"

// Assignment binds a teacher and a room to a group's subject in one block of a period.
type Assignment struct {
	ID        int64     `db:"id" json:"id"`
	GroupID   int64     `db:"group_id" json:"group_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	RoomID    int64     `db:"room_id" json:"room_id"`
	PeriodID  int64     `db:"period_id" json:"period_id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	BlockID   int64     `db:"block_id" json:"block_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignmentFilter narrows assignment listings. Zero values are ignored.
type AssignmentFilter struct {
	PeriodID  int64
	GroupID   int64
	TeacherID int64
	RoomID    int64
}

// Conflict dimensions reported on write-time collisions.
const (
	ConflictDimensionTeacher = "TEACHER"
	ConflictDimensionRoom    = "ROOM"
	ConflictDimensionGroup   = "GROUP"
)

// ScheduleConflict describes an existing assignment that collides with a new one.
type ScheduleConflict struct {
	AssignmentID int64  `json:"assignment_id"`
	PeriodID     int64  `json:"period_id"`
	BlockID      int64  `json:"block_id"`
	GroupID      int64  `json:"group_id"`
	TeacherID    int64  `json:"teacher_id"`
	RoomID       int64  `json:"room_id"`
	Dimension    string `json:"dimension"`
}

// ScheduleConflictError is returned when an assignment is booked concurrently by someone else.
type ScheduleConflictError struct {
	Message   string             `json:"message"`
	Conflicts []ScheduleConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
