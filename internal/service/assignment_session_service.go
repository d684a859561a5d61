package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-admin-api/internal/dto"
	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
	"github.com/noah-isme/horario-admin-api/pkg/middleware/requestid"
)

type snapshotSource interface {
	Load(ctx context.Context, periodID int64) (*Snapshot, error)
	Block(ctx context.Context, id int64) (*models.TimeBlock, error)
	Group(ctx context.Context, id int64) (*models.Group, error)
}

type assignmentWriter interface {
	Create(ctx context.Context, assignment *models.Assignment) error
}

// AssignmentSessionConfig governs dialog behaviour.
type AssignmentSessionConfig struct {
	StrictAvailability bool
	SessionTTL         time.Duration
	Shifts             ShiftPolicy
}

// AssignmentSessionService hosts the manual assignment dialog: candidate
// listing, selection and the gated commit.
type AssignmentSessionService struct {
	snapshots snapshotSource
	writer    assignmentWriter
	memo      *CandidateMemo
	gate      *CommitGate
	store     *sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       AssignmentSessionConfig
	now       func() time.Time
}

// NewAssignmentSessionService wires the dialog dependencies.
func NewAssignmentSessionService(
	snapshots snapshotSource,
	writer assignmentWriter,
	memo *CandidateMemo,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AssignmentSessionConfig,
) *AssignmentSessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	cfg.Shifts = cfg.Shifts.WithDefaults()
	return &AssignmentSessionService{
		snapshots: snapshots,
		writer:    writer,
		memo:      memo,
		gate:      NewCommitGate(cfg.Shifts),
		store:     newSessionStore(cfg.SessionTTL),
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *AssignmentSessionService) policy() AvailabilityPolicy {
	return AvailabilityPolicy{Strict: s.cfg.StrictAvailability}
}

// Evaluate runs the eligibility filter against the latest snapshot without opening a dialog.
func (s *AssignmentSessionService) Evaluate(ctx context.Context, req dto.CandidateRequest) (*dto.CandidateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid candidate query")
	}
	q := CandidateQuery{SubjectID: req.SubjectID, BlockID: req.BlockID, PeriodID: req.PeriodID}
	resp, _, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckShift reports whether a block fits the group's preferred shift. An
// unknown block or group skips the check.
func (s *AssignmentSessionService) CheckShift(ctx context.Context, req dto.ShiftCheckRequest) (*dto.ShiftCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift check payload")
	}
	block, err := s.snapshots.Block(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return &dto.ShiftCheckResponse{OK: true}, nil
		}
		return nil, err
	}
	group, err := s.snapshots.Group(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return &dto.ShiftCheckResponse{OK: true}, nil
		}
		return nil, err
	}
	if violation := s.cfg.Shifts.Validate(block, group); violation != nil {
		return &dto.ShiftCheckResponse{OK: false, Violation: violationPayload(violation)}, nil
	}
	return &dto.ShiftCheckResponse{OK: true}, nil
}

// Open starts a dialog with an empty selection and returns its first candidate lists.
func (s *AssignmentSessionService) Open(ctx context.Context, req dto.OpenAssignmentRequest) (*dto.AssignmentSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment request")
	}
	session := assignmentSession{
		ID:        uuid.NewString(),
		Query:     CandidateQuery{SubjectID: req.SubjectID, BlockID: req.BlockID, PeriodID: req.PeriodID},
		GroupID:   req.GroupID,
		UpdatedAt: s.now(),
	}
	candidates, _, err := s.candidates(ctx, session.Query)
	if err != nil {
		return nil, err
	}
	s.store.Save(session)
	s.logger.Debug("assignment session opened",
		zap.String("session_id", session.ID),
		zap.Int64("subject_id", req.SubjectID),
		zap.Int64("block_id", req.BlockID),
	)
	return s.sessionResponse(session, candidates), nil
}

// Candidates re-runs the filter for an open dialog against the latest snapshot.
func (s *AssignmentSessionService) Candidates(ctx context.Context, sessionID string) (*dto.AssignmentSessionResponse, error) {
	session, ok := s.store.Get(sessionID, s.now())
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	candidates, _, err := s.candidates(ctx, session.Query)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(session, candidates), nil
}

// Select updates the dialog selection. Each provided id must be a current
// candidate; zero clears that side.
func (s *AssignmentSessionService) Select(ctx context.Context, sessionID string, req dto.SelectionRequest) (*dto.AssignmentSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	session, ok := s.store.Get(sessionID, s.now())
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	candidates, raw, err := s.candidates(ctx, session.Query)
	if err != nil {
		return nil, err
	}
	if req.TeacherID != nil && *req.TeacherID != 0 && !containsTeacher(raw.Teachers, *req.TeacherID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is not eligible for this block")
	}
	if req.RoomID != nil && *req.RoomID != 0 && !containsRoom(raw.Rooms, *req.RoomID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room is not eligible for this block")
	}

	updated, ok := s.store.Update(sessionID, s.now(), func(sess *assignmentSession) {
		if req.TeacherID != nil {
			sess.Selection.TeacherID = *req.TeacherID
		}
		if req.RoomID != nil {
			sess.Selection.RoomID = *req.RoomID
		}
	})
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return s.sessionResponse(updated, candidates), nil
}

// Commit runs the commit gate for the dialog. A rejected attempt keeps the
// session and its selection; a saved one discards the session.
func (s *AssignmentSessionService) Commit(ctx context.Context, sessionID string) (*dto.CommitAssignmentResponse, error) {
	session, ok := s.store.Get(sessionID, s.now())
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}

	var block *models.TimeBlock
	var group *models.Group
	if session.Selection.Complete() {
		// Filtering tolerates a null period or group; a stored assignment does not.
		if session.Query.PeriodID == 0 || session.GroupID == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "period and group are required to commit")
		}
		var err error
		if block, err = s.snapshots.Block(ctx, session.Query.BlockID); err != nil {
			return nil, err
		}
		if group, err = s.snapshots.Group(ctx, session.GroupID); err != nil {
			return nil, err
		}
	}

	var saved models.Assignment
	save := func(ctx context.Context, teacherID, roomID int64) error {
		saved = models.Assignment{
			GroupID:   session.GroupID,
			SubjectID: session.Query.SubjectID,
			TeacherID: teacherID,
			RoomID:    roomID,
			PeriodID:  session.Query.PeriodID,
			Weekday:   block.Weekday,
			BlockID:   block.ID,
		}
		return s.writer.Create(ctx, &saved)
	}

	result, err := s.gate.Commit(ctx, session.Selection, block, group, save)
	if err != nil {
		var conflict *models.ScheduleConflictError
		if errors.As(err, &conflict) {
			s.metrics.RecordCommit("CONFLICT")
			s.logger.Info("assignment rejected by write-time conflict",
				zap.String("request_id", requestid.FromContext(ctx)),
				zap.String("session_id", sessionID),
				zap.Int("conflicts", len(conflict.Conflicts)),
			)
			return nil, appErrors.WithDetails(appErrors.ErrConflict, conflict.Message, conflict.Conflicts)
		}
		s.metrics.RecordCommit("ERROR")
		s.logger.Error("failed to save assignment", zap.String("session_id", sessionID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assignment")
	}

	s.metrics.RecordCommit(string(result.Outcome))
	switch result.Outcome {
	case CommitIncomplete:
		return nil, appErrors.ErrIncompleteSelection
	case CommitShiftViolation:
		return nil, appErrors.WithDetails(appErrors.ErrShiftConflict, result.Violation.Error(), violationPayload(result.Violation))
	}

	s.store.Delete(sessionID)
	s.logger.Info("assignment committed",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("session_id", sessionID),
		zap.Int64("assignment_id", saved.ID),
		zap.Int64("teacher_id", saved.TeacherID),
		zap.Int64("room_id", saved.RoomID),
		zap.Int64("block_id", saved.BlockID),
	)
	return &dto.CommitAssignmentResponse{Assignment: saved}, nil
}

// FlushCandidateCache drops every memoized candidate list, local and shared.
func (s *AssignmentSessionService) FlushCandidateCache(ctx context.Context) error {
	if err := s.memo.Flush(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to flush candidate cache")
	}
	s.logger.Info("candidate cache flushed", zap.String("request_id", requestid.FromContext(ctx)))
	return nil
}

// Close discards the dialog. Closing an unknown session is not an error.
func (s *AssignmentSessionService) Close(sessionID string) {
	s.store.Delete(sessionID)
}

func (s *AssignmentSessionService) candidates(ctx context.Context, q CandidateQuery) (dto.CandidateResponse, Candidates, error) {
	snap, err := s.snapshots.Load(ctx, q.PeriodID)
	if err != nil {
		return dto.CandidateResponse{}, Candidates{}, err
	}
	policy := s.policy()
	found := s.memo.Resolve(ctx, q, snap, policy)
	return dto.CandidateResponse{
		SubjectID:       q.SubjectID,
		BlockID:         q.BlockID,
		PeriodID:        q.PeriodID,
		Strict:          policy.Strict,
		SnapshotVersion: snap.Version(),
		Teachers:        found.Teachers,
		Rooms:           found.Rooms,
	}, found, nil
}

func (s *AssignmentSessionService) sessionResponse(session assignmentSession, candidates dto.CandidateResponse) *dto.AssignmentSessionResponse {
	return &dto.AssignmentSessionResponse{
		SessionID: session.ID,
		SubjectID: session.Query.SubjectID,
		BlockID:   session.Query.BlockID,
		PeriodID:  session.Query.PeriodID,
		GroupID:   session.GroupID,
		Selection: dto.SelectionPayload{
			TeacherID: session.Selection.TeacherID,
			RoomID:    session.Selection.RoomID,
			Complete:  session.Selection.Complete(),
		},
		Candidates: candidates,
		ExpiresAt:  session.UpdatedAt.Add(s.cfg.SessionTTL),
	}
}

func violationPayload(v *ShiftViolation) *dto.ShiftViolationPayload {
	if v == nil {
		return nil
	}
	return &dto.ShiftViolationPayload{
		Shift:          string(v.Shift),
		PreferredShift: v.PreferredShift,
		StartHour:      v.StartHour,
		BlockID:        v.BlockID,
		Message:        v.Error(),
	}
}

func containsTeacher(items []models.Teacher, id int64) bool {
	for _, t := range items {
		if t.ID == id {
			return true
		}
	}
	return false
}

func containsRoom(items []models.Room, id int64) bool {
	for _, r := range items {
		if r.ID == id {
			return true
		}
	}
	return false
}

// --- session store ---

type assignmentSession struct {
	ID        string
	Query     CandidateQuery
	GroupID   int64
	Selection SelectionState
	UpdatedAt time.Time
}

type sessionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]assignmentSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:   ttl,
		items: make(map[string]assignmentSession),
	}
}

func (s *sessionStore) Save(session assignmentSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = session
}

func (s *sessionStore) Get(id string, now time.Time) (assignmentSession, bool) {
	s.mu.RLock()
	session, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return assignmentSession{}, false
	}
	if now.Sub(session.UpdatedAt) > s.ttl {
		s.Delete(id)
		return assignmentSession{}, false
	}
	return session, true
}

// Update applies fn to a live session and refreshes its expiry.
func (s *sessionStore) Update(id string, now time.Time, fn func(*assignmentSession)) (assignmentSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if !ok || now.Sub(session.UpdatedAt) > s.ttl {
		delete(s.items, id)
		return assignmentSession{}, false
	}
	fn(&session)
	session.UpdatedAt = now
	s.items[id] = session
	return session, true
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
