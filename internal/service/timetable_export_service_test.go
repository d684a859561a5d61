package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-admin-api/internal/dto"
	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

type exportAssignmentStub struct {
	filter models.AssignmentFilter
	items  []models.Assignment
}

func (s *exportAssignmentStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	s.filter = filter
	return s.items, nil
}

type exportGroupStub struct{}

func (exportGroupStub) List(ctx context.Context) ([]models.Group, error) {
	return []models.Group{{ID: 70, Code: "1A"}}, nil
}

type exportPeriodStub struct{}

func (exportPeriodStub) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	if id != 7 {
		return nil, sql.ErrNoRows
	}
	return &models.Period{ID: 7, Name: "2026 I"}, nil
}

func newExportFixture(enabled bool) (*TimetableExportService, *exportAssignmentStub) {
	assignments := &exportAssignmentStub{items: []models.Assignment{
		{ID: 1, GroupID: 70, SubjectID: 100, TeacherID: 1, RoomID: 50, PeriodID: 7, Weekday: 1, BlockID: 10},
		{ID: 2, GroupID: 70, SubjectID: 101, TeacherID: 3, RoomID: 51, PeriodID: 7, Weekday: 2, BlockID: 11},
		{ID: 3, GroupID: 70, SubjectID: 102, TeacherID: 99, RoomID: 53, PeriodID: 7, Weekday: 1, BlockID: 12},
	}}
	svc := NewTimetableExportService(TimetableSources{
		Assignments: assignments,
		Blocks:      exportBlockStub{},
		Subjects:    loaderSubjectStub{},
		Teachers:    loaderTeacherStub{},
		Rooms:       loaderRoomStub{},
		Groups:      exportGroupStub{},
		Periods:     exportPeriodStub{},
	}, TimetableExportOptions{Enabled: enabled}, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return svc, assignments
}

type exportBlockStub struct{}

func (exportBlockStub) List(ctx context.Context) ([]models.TimeBlock, error) {
	return []models.TimeBlock{
		{ID: 12, Weekday: 1, StartTime: "09:30:00", EndTime: "11:00:00"},
		{ID: 10, Weekday: 1, StartTime: "08:00:00", EndTime: "09:30:00"},
		{ID: 11, Weekday: 2, StartTime: "08:00:00", EndTime: "09:30:00"},
	}, nil
}

func (exportBlockStub) FindByID(ctx context.Context, id int64) (*models.TimeBlock, error) {
	return nil, sql.ErrNoRows
}

func TestTimetableExportCSV(t *testing.T) {
	svc, assignments := newExportFixture(true)

	file, err := svc.Export(context.Background(), dto.TimetableExportQuery{PeriodID: 7, GroupID: 70})
	require.NoError(t, err)
	assert.Equal(t, "horario_grupo_2026-I_2026-03-02.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, models.AssignmentFilter{PeriodID: 7, GroupID: 70}, assignments.filter)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Payload, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Hora", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}, records[0])
	assert.Equal(t, "08:00 - 09:30", records[1][0])
	assert.Equal(t, "Materia: Cálculo\nGrupo: 1A\nAula: A-101\nDocente: Ana", records[1][1])
	assert.Equal(t, "Materia: Química\nGrupo: 1A\nAula: Lab-1\nDocente: Carla", records[1][2])
	assert.Equal(t, "09:30 - 11:00", records[2][0])
	assert.Contains(t, records[2][1], "Docente: N/A")
	assert.Empty(t, records[2][3])
}

func TestTimetableExportPDF(t *testing.T) {
	svc, assignments := newExportFixture(true)

	file, err := svc.Export(context.Background(), dto.TimetableExportQuery{PeriodID: 7, TeacherID: 1, Format: dto.ExportFormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
	assert.Equal(t, int64(1), assignments.filter.TeacherID)
}

func TestTimetableExportRejects(t *testing.T) {
	svc, _ := newExportFixture(true)
	ctx := context.Background()

	_, err := svc.Export(ctx, dto.TimetableExportQuery{PeriodID: 7})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(ctx, dto.TimetableExportQuery{PeriodID: 7, GroupID: 70, RoomID: 50})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(ctx, dto.TimetableExportQuery{PeriodID: 7, GroupID: 70, Format: "xlsx"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(ctx, dto.TimetableExportQuery{GroupID: 70})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(ctx, dto.TimetableExportQuery{PeriodID: 8, GroupID: 70})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	disabled, _ := newExportFixture(false)
	_, err = disabled.Export(ctx, dto.TimetableExportQuery{PeriodID: 7, GroupID: 70})
	assert.True(t, errors.Is(err, appErrors.ErrFeatureDisabled))
}

func TestTimeRangesDedupesAndSorts(t *testing.T) {
	blocks, _ := exportBlockStub{}.List(context.Background())
	assert.Equal(t, []string{"08:00 - 09:30", "09:30 - 11:00"}, timeRanges(blocks))
}
