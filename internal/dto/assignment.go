package dto

import (
	"time"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// CandidateRequest asks which teachers and rooms may take a subject in a block.
type CandidateRequest struct {
	SubjectID int64 `json:"subject_id" validate:"gte=0"`
	BlockID   int64 `json:"block_id" validate:"gte=0"`
	PeriodID  int64 `json:"period_id" validate:"gte=0"`
}

// CandidateResponse lists eligible teachers and rooms in snapshot order.
type CandidateResponse struct {
	SubjectID       int64            `json:"subject_id"`
	BlockID         int64            `json:"block_id"`
	PeriodID        int64            `json:"period_id,omitempty"`
	Strict          bool             `json:"strict_availability"`
	SnapshotVersion string           `json:"snapshot_version"`
	Teachers        []models.Teacher `json:"teachers"`
	Rooms           []models.Room    `json:"rooms"`
}

// ShiftCheckRequest validates a block against a group's preferred shift.
type ShiftCheckRequest struct {
	BlockID int64 `json:"block_id" validate:"required,gt=0"`
	GroupID int64 `json:"group_id" validate:"required,gt=0"`
}

// ShiftViolationPayload explains why a block falls outside the preferred shift.
type ShiftViolationPayload struct {
	Shift          string `json:"shift"`
	PreferredShift string `json:"preferred_shift"`
	StartHour      int    `json:"start_hour"`
	BlockID        int64  `json:"block_id"`
	Message        string `json:"message"`
}

// ShiftCheckResponse is ok unless a violation is attached.
type ShiftCheckResponse struct {
	OK        bool                   `json:"ok"`
	Violation *ShiftViolationPayload `json:"violation,omitempty"`
}

// OpenAssignmentRequest opens an assignment dialog for a (subject, block) pair.
type OpenAssignmentRequest struct {
	SubjectID int64 `json:"subject_id" validate:"gte=0"`
	BlockID   int64 `json:"block_id" validate:"gte=0"`
	PeriodID  int64 `json:"period_id" validate:"gte=0"`
	GroupID   int64 `json:"group_id" validate:"gte=0"`
}

// SelectionRequest updates the dialog selection. Nil leaves a side untouched, zero clears it.
type SelectionRequest struct {
	TeacherID *int64 `json:"teacher_id" validate:"omitempty,gte=0"`
	RoomID    *int64 `json:"room_id" validate:"omitempty,gte=0"`
}

// SelectionPayload mirrors the current dialog selection.
type SelectionPayload struct {
	TeacherID int64 `json:"teacher_id,omitempty"`
	RoomID    int64 `json:"room_id,omitempty"`
	Complete  bool  `json:"complete"`
}

// AssignmentSessionResponse describes an open dialog.
type AssignmentSessionResponse struct {
	SessionID  string            `json:"session_id"`
	SubjectID  int64             `json:"subject_id"`
	BlockID    int64             `json:"block_id"`
	PeriodID   int64             `json:"period_id,omitempty"`
	GroupID    int64             `json:"group_id,omitempty"`
	Selection  SelectionPayload  `json:"selection"`
	Candidates CandidateResponse `json:"candidates"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// CommitAssignmentResponse returns the persisted assignment.
type CommitAssignmentResponse struct {
	Assignment models.Assignment `json:"assignment"`
}
