package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

var tracer = otel.Tracer("github.com/noah-isme/horario-admin-api/internal/service")

type assignmentReader interface {
	ListByPeriod(ctx context.Context, periodID int64) ([]models.Assignment, error)
}

type roomReader interface {
	List(ctx context.Context) ([]models.Room, error)
}

type blockReader interface {
	List(ctx context.Context) ([]models.TimeBlock, error)
	FindByID(ctx context.Context, id int64) (*models.TimeBlock, error)
}

type teacherReader interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type availabilityReader interface {
	ListByPeriod(ctx context.Context, periodID int64) ([]models.TeacherAvailability, error)
}

type subjectReader interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type groupReader interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
}

// SnapshotSources bundles the readers a snapshot is assembled from.
type SnapshotSources struct {
	Assignments  assignmentReader
	Rooms        roomReader
	Blocks       blockReader
	Teachers     teacherReader
	Availability availabilityReader
	Subjects     subjectReader
	Groups       groupReader
}

// SnapshotLoader reads the latest scheduling data on every call.
type SnapshotLoader struct {
	src     SnapshotSources
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSnapshotLoader constructs a snapshot loader.
func NewSnapshotLoader(src SnapshotSources, metrics *MetricsService, logger *zap.Logger) *SnapshotLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{src: src, metrics: metrics, logger: logger}
}

// Load reads all six collections concurrently. Assignments and availability
// are scoped to periodID when it is set.
func (l *SnapshotLoader) Load(ctx context.Context, periodID int64) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()
	span.SetAttributes(attribute.Int64("period_id", periodID))

	start := time.Now()
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Assignments, err = l.src.Assignments.ListByPeriod(gctx, periodID)
		return err
	})
	g.Go(func() (err error) {
		snap.Rooms, err = l.src.Rooms.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Blocks, err = l.src.Blocks.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Teachers, err = l.src.Teachers.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Availability, err = l.src.Availability.ListByPeriod(gctx, periodID)
		return err
	})
	g.Go(func() (err error) {
		snap.Subjects, err = l.src.Subjects.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot load failed")
		l.logger.Error("failed to load scheduling snapshot", zap.Int64("period_id", periodID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling data")
	}

	l.metrics.ObserveSnapshotLoad(time.Since(start))
	span.SetAttributes(
		attribute.Int("assignments", len(snap.Assignments)),
		attribute.Int("teachers", len(snap.Teachers)),
		attribute.Int("rooms", len(snap.Rooms)),
	)
	return snap, nil
}

// Block loads a single time block.
func (l *SnapshotLoader) Block(ctx context.Context, id int64) (*models.TimeBlock, error) {
	block, err := l.src.Blocks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time block")
	}
	return block, nil
}

// Group loads a single group.
func (l *SnapshotLoader) Group(ctx context.Context, id int64) (*models.Group, error) {
	group, err := l.src.Groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}
