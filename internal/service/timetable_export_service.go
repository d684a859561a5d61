package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-admin-api/internal/dto"
	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
	"github.com/noah-isme/horario-admin-api/pkg/export"
)

const (
	timetableHourColumn = "Hora"
	notAvailable        = "N/A"
)

var weekdayNames = map[int]string{
	1: "Lunes",
	2: "Martes",
	3: "Miércoles",
	4: "Jueves",
	5: "Viernes",
	6: "Sábado",
}

type assignmentLister interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type groupLister interface {
	List(ctx context.Context) ([]models.Group, error)
}

type periodFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Period, error)
}

type datasetRenderer interface {
	ContentType() string
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableSources bundles the readers an export is built from.
type TimetableSources struct {
	Assignments assignmentLister
	Blocks      blockReader
	Subjects    subjectReader
	Teachers    teacherReader
	Rooms       roomReader
	Groups      groupLister
	Periods     periodFinder
}

// TimetableExportService renders weekly timetables for a group, teacher or room.
type TimetableExportService struct {
	src       TimetableSources
	renderers map[string]datasetRenderer
	validator *validator.Validate
	logger    *zap.Logger
	enabled   bool
	now       func() time.Time
}

// TimetableExportOptions toggles exports and tunes the CSV output.
type TimetableExportOptions struct {
	Enabled      bool
	CSVDelimiter string
}

// NewTimetableExportService constructs the export service with CSV and PDF renderers.
func NewTimetableExportService(src TimetableSources, opts TimetableExportOptions, validate *validator.Validate, logger *zap.Logger) *TimetableExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableExportService{
		src: src,
		renderers: map[string]datasetRenderer{
			dto.ExportFormatCSV: export.NewCSVExporterWithDelimiter(opts.CSVDelimiter),
			dto.ExportFormatPDF: export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
		enabled:   opts.Enabled,
		now:       time.Now,
	}
}

type timetableTarget struct {
	kind   string
	filter models.AssignmentFilter
}

func resolveTarget(q dto.TimetableExportQuery) (timetableTarget, error) {
	var targets []timetableTarget
	if q.GroupID > 0 {
		targets = append(targets, timetableTarget{kind: "grupo", filter: models.AssignmentFilter{PeriodID: q.PeriodID, GroupID: q.GroupID}})
	}
	if q.TeacherID > 0 {
		targets = append(targets, timetableTarget{kind: "docente", filter: models.AssignmentFilter{PeriodID: q.PeriodID, TeacherID: q.TeacherID}})
	}
	if q.RoomID > 0 {
		targets = append(targets, timetableTarget{kind: "aula", filter: models.AssignmentFilter{PeriodID: q.PeriodID, RoomID: q.RoomID}})
	}
	if len(targets) != 1 {
		return timetableTarget{}, appErrors.Clone(appErrors.ErrValidation, "exactly one of group_id, teacher_id or room_id is required")
	}
	return targets[0], nil
}

// Export renders the timetable selected by the query.
func (s *TimetableExportService) Export(ctx context.Context, q dto.TimetableExportQuery) (*dto.TimetableFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "timetable exports are disabled")
	}
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	if q.Format == "" {
		q.Format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[q.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	target, err := resolveTarget(q)
	if err != nil {
		return nil, err
	}

	period, err := s.src.Periods.FindByID(ctx, q.PeriodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	data, err := s.buildDataset(ctx, target)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Horario del %s - %s", target.kind, period.Name)
	payload, err := renderer.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	filename := fmt.Sprintf("horario_%s_%s_%s.%s", target.kind, slug(period.Name), s.now().Format("2006-01-02"), q.Format)
	s.logger.Info("timetable exported",
		zap.String("kind", target.kind),
		zap.Int64("period_id", q.PeriodID),
		zap.String("format", q.Format),
		zap.Int("rows", len(data.Rows)),
	)
	return &dto.TimetableFile{Filename: filename, ContentType: renderer.ContentType(), Payload: payload}, nil
}

func (s *TimetableExportService) buildDataset(ctx context.Context, target timetableTarget) (export.Dataset, error) {
	wrap := func(err error, what string) error {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
	}
	assignments, err := s.src.Assignments.List(ctx, target.filter)
	if err != nil {
		return export.Dataset{}, wrap(err, "assignments")
	}
	blocks, err := s.src.Blocks.List(ctx)
	if err != nil {
		return export.Dataset{}, wrap(err, "time blocks")
	}
	subjects, err := s.src.Subjects.List(ctx)
	if err != nil {
		return export.Dataset{}, wrap(err, "subjects")
	}
	teachers, err := s.src.Teachers.List(ctx)
	if err != nil {
		return export.Dataset{}, wrap(err, "teachers")
	}
	rooms, err := s.src.Rooms.List(ctx)
	if err != nil {
		return export.Dataset{}, wrap(err, "rooms")
	}
	groups, err := s.src.Groups.List(ctx)
	if err != nil {
		return export.Dataset{}, wrap(err, "groups")
	}

	subjectNames := make(map[int64]string, len(subjects))
	for _, sub := range subjects {
		subjectNames[sub.ID] = sub.Name
	}
	teacherNames := make(map[int64]string, len(teachers))
	for _, t := range teachers {
		teacherNames[t.ID] = t.FullName()
	}
	roomNames := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		roomNames[r.ID] = r.Name
	}
	groupCodes := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupCodes[g.ID] = g.Code
	}
	blockRanges := make(map[int64]string, len(blocks))
	for _, b := range blocks {
		blockRanges[b.ID] = b.TimeRange()
	}

	headers := []string{timetableHourColumn}
	for day := models.MinWeekday; day <= models.MaxWeekday; day++ {
		headers = append(headers, weekdayNames[day])
	}

	ranges := timeRanges(blocks)
	cells := make(map[string][]string)
	for _, a := range assignments {
		span, ok := blockRanges[a.BlockID]
		if !ok {
			continue
		}
		day, ok := weekdayNames[a.Weekday]
		if !ok {
			continue
		}
		cells[span+"|"+day] = append(cells[span+"|"+day], fmt.Sprintf("Materia: %s\nGrupo: %s\nAula: %s\nDocente: %s",
			nameOr(subjectNames, a.SubjectID), nameOr(groupCodes, a.GroupID), nameOr(roomNames, a.RoomID), nameOr(teacherNames, a.TeacherID)))
	}

	rows := make([]map[string]string, 0, len(ranges))
	for _, span := range ranges {
		row := map[string]string{timetableHourColumn: span}
		for _, header := range headers[1:] {
			row[header] = strings.Join(cells[span+"|"+header], "\n\n")
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

// timeRanges returns the distinct block time ranges ordered by start time.
func timeRanges(blocks []models.TimeBlock) []string {
	type span struct {
		label string
		start int
		end   int
	}
	seen := make(map[string]struct{})
	var spans []span
	for _, b := range blocks {
		label := b.TimeRange()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		start, _ := models.ClockMinutes(b.StartTime)
		end, _ := models.ClockMinutes(b.EndTime)
		spans = append(spans, span{label: label, start: start, end: end})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.label
	}
	return out
}

func nameOr(names map[int64]string, id int64) string {
	if name := strings.TrimSpace(names[id]); name != "" {
		return name
	}
	return notAvailable
}

func slug(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "periodo"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '"':
			return '-'
		}
		return r
	}, raw)
}
