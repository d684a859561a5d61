package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

type saveRecorder struct {
	calls   int
	teacher int64
	room    int64
	err     error
}

func (r *saveRecorder) save(_ context.Context, teacherID, roomID int64) error {
	r.calls++
	r.teacher = teacherID
	r.room = roomID
	return r.err
}

func TestCommitGateRejectsPartialSelection(t *testing.T) {
	gate := NewCommitGate(DefaultShiftPolicy())
	okBlock := &models.TimeBlock{ID: 1, StartTime: "14:00:00"}
	badBlock := &models.TimeBlock{ID: 2, StartTime: "08:00:00"}
	group := &models.Group{PreferredShift: "tarde"}

	for _, sel := range []SelectionState{{}, {TeacherID: 1}, {RoomID: 5}} {
		for _, block := range []*models.TimeBlock{okBlock, badBlock} {
			rec := &saveRecorder{}
			result, err := gate.Commit(context.Background(), sel, block, group, rec.save)
			require.NoError(t, err)
			assert.Equal(t, CommitIncomplete, result.Outcome)
			assert.Zero(t, rec.calls)
		}
	}
}

func TestCommitGateBlocksShiftViolation(t *testing.T) {
	gate := NewCommitGate(DefaultShiftPolicy())
	rec := &saveRecorder{}

	result, err := gate.Commit(context.Background(), SelectionState{TeacherID: 1, RoomID: 5},
		&models.TimeBlock{ID: 2, StartTime: "08:00:00"}, &models.Group{PreferredShift: "tarde"}, rec.save)

	require.NoError(t, err)
	assert.Equal(t, CommitShiftViolation, result.Outcome)
	require.NotNil(t, result.Violation)
	assert.Equal(t, ShiftAfternoon, result.Violation.Shift)
	assert.Zero(t, rec.calls)
}

func TestCommitGateSavesCompleteSelection(t *testing.T) {
	gate := NewCommitGate(DefaultShiftPolicy())
	rec := &saveRecorder{}

	result, err := gate.Commit(context.Background(), SelectionState{TeacherID: 1, RoomID: 5},
		&models.TimeBlock{ID: 2, StartTime: "14:00:00"}, &models.Group{PreferredShift: "tarde"}, rec.save)

	require.NoError(t, err)
	assert.Equal(t, CommitSaved, result.Outcome)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, int64(1), rec.teacher)
	assert.Equal(t, int64(5), rec.room)
}

func TestCommitGateWithoutGroupSkipsShiftCheck(t *testing.T) {
	gate := NewCommitGate(DefaultShiftPolicy())
	rec := &saveRecorder{}

	result, err := gate.Commit(context.Background(), SelectionState{TeacherID: 1, RoomID: 5}, &models.TimeBlock{StartTime: "03:00"}, nil, rec.save)
	require.NoError(t, err)
	assert.Equal(t, CommitSaved, result.Outcome)
}

func TestCommitGatePropagatesSaveError(t *testing.T) {
	gate := NewCommitGate(DefaultShiftPolicy())
	boom := errors.New("teacher booked meanwhile")
	rec := &saveRecorder{err: boom}

	_, err := gate.Commit(context.Background(), SelectionState{TeacherID: 1, RoomID: 5}, nil, nil, rec.save)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.calls)

	_, err = gate.Commit(context.Background(), SelectionState{TeacherID: 1, RoomID: 5}, nil, nil, nil)
	assert.Error(t, err)
}

func TestSelectionStateReset(t *testing.T) {
	sel := SelectionState{TeacherID: 3, RoomID: 4}
	assert.True(t, sel.Complete())
	sel.Reset()
	assert.Equal(t, SelectionState{}, sel)
	assert.False(t, sel.Complete())
}
