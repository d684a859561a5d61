package service

import (
	"context"
	"errors"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// SelectionState is the teacher and room picked in one open dialog. Zero means not chosen.
type SelectionState struct {
	TeacherID int64
	RoomID    int64
}

// Complete reports whether both a teacher and a room are chosen.
func (s SelectionState) Complete() bool {
	return s.TeacherID != 0 && s.RoomID != 0
}

// Reset clears both sides of the selection.
func (s *SelectionState) Reset() {
	*s = SelectionState{}
}

// SaveFunc persists the chosen pair; it owns write-time conflict handling.
type SaveFunc func(ctx context.Context, teacherID, roomID int64) error

// CommitOutcome classifies one commit attempt.
type CommitOutcome string

const (
	CommitIncomplete     CommitOutcome = "INCOMPLETE"
	CommitShiftViolation CommitOutcome = "SHIFT_VIOLATION"
	CommitSaved          CommitOutcome = "SAVED"
)

// CommitResult is returned for every attempt; Violation is set only on CommitShiftViolation.
type CommitResult struct {
	Outcome   CommitOutcome
	Violation *ShiftViolation
}

var errNoSaveFunc = errors.New("commit gate: save callback is required")

// CommitGate lets a save through only for a complete selection on a block that fits the group's shift.
type CommitGate struct {
	shifts ShiftPolicy
}

// NewCommitGate builds a gate around the given shift policy.
func NewCommitGate(shifts ShiftPolicy) *CommitGate {
	return &CommitGate{shifts: shifts}
}

// Commit evaluates the selection and calls save at most once. The returned
// error is the save callback's own failure; rejected attempts are reported
// through the result and leave the selection untouched.
func (g *CommitGate) Commit(ctx context.Context, sel SelectionState, block *models.TimeBlock, group *models.Group, save SaveFunc) (CommitResult, error) {
	if !sel.Complete() {
		return CommitResult{Outcome: CommitIncomplete}, nil
	}
	if violation := g.shifts.Validate(block, group); violation != nil {
		return CommitResult{Outcome: CommitShiftViolation, Violation: violation}, nil
	}
	if save == nil {
		return CommitResult{}, errNoSaveFunc
	}
	if err := save(ctx, sel.TeacherID, sel.RoomID); err != nil {
		return CommitResult{}, err
	}
	return CommitResult{Outcome: CommitSaved}, nil
}
