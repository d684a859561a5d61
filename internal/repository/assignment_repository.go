package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

const assignmentColumns = `id, group_id, subject_id, teacher_id, room_id, period_id, weekday, block_id, created_at`

// AssignmentRepository persists timetable assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByPeriod returns the assignments of a period, or all of them when periodID is zero.
func (r *AssignmentRepository) ListByPeriod(ctx context.Context, periodID int64) ([]models.Assignment, error) {
	return r.List(ctx, models.AssignmentFilter{PeriodID: periodID})
}

// List returns assignments matching the filter ordered by weekday and block.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	base := "FROM assignments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.PeriodID > 0 {
		conditions = append(conditions, fmt.Sprintf("period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if filter.GroupID > 0 {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID > 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID > 0 {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY weekday ASC, block_id ASC, id ASC", assignmentColumns, base)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// uniqueViolation is the Postgres SQLSTATE raised by the assignments_*_key indexes.
const uniqueViolation = "23505"

// Create inserts the assignment while holding a transaction-scoped advisory
// lock on its period and block, so concurrent commits for the same slot are
// serialized. A teacher, room or group collision aborts the insert with a
// *models.ScheduleConflictError.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, slotLockKey(assignment)); err != nil {
		return fmt.Errorf("lock assignment slot: %w", err)
	}

	lockQuery := fmt.Sprintf(`SELECT %s FROM assignments WHERE period_id = $1 AND block_id = $2 AND (teacher_id = $3 OR room_id = $4 OR group_id = $5) FOR UPDATE`, assignmentColumns)
	var existing []models.Assignment
	if err = tx.SelectContext(ctx, &existing, lockQuery, assignment.PeriodID, assignment.BlockID, assignment.TeacherID, assignment.RoomID, assignment.GroupID); err != nil {
		return fmt.Errorf("read assignment slot: %w", err)
	}

	if conflicts := detectConflicts(assignment, existing); len(conflicts) > 0 {
		err = &models.ScheduleConflictError{
			Message:   "assignment collides with an existing booking",
			Conflicts: conflicts,
		}
		return err
	}

	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}

	const insertQuery = `INSERT INTO assignments (group_id, subject_id, teacher_id, room_id, period_id, weekday, block_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery,
		assignment.GroupID, assignment.SubjectID, assignment.TeacherID, assignment.RoomID,
		assignment.PeriodID, assignment.Weekday, assignment.BlockID, assignment.CreatedAt,
	).Scan(&assignment.ID); err != nil {
		if conflict := conflictFromUniqueViolation(assignment, err); conflict != nil {
			err = conflict
			return err
		}
		return fmt.Errorf("insert assignment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create assignment: %w", err)
	}
	return nil
}

func detectConflicts(candidate *models.Assignment, existing []models.Assignment) []models.ScheduleConflict {
	var conflicts []models.ScheduleConflict
	for _, row := range existing {
		base := models.ScheduleConflict{
			AssignmentID: row.ID,
			PeriodID:     row.PeriodID,
			BlockID:      row.BlockID,
			GroupID:      row.GroupID,
			TeacherID:    row.TeacherID,
			RoomID:       row.RoomID,
		}
		if row.TeacherID == candidate.TeacherID {
			c := base
			c.Dimension = models.ConflictDimensionTeacher
			conflicts = append(conflicts, c)
		}
		if row.RoomID == candidate.RoomID {
			c := base
			c.Dimension = models.ConflictDimensionRoom
			conflicts = append(conflicts, c)
		}
		if row.GroupID == candidate.GroupID {
			c := base
			c.Dimension = models.ConflictDimensionGroup
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

func slotLockKey(a *models.Assignment) string {
	return fmt.Sprintf("assignments:%d:%d", a.PeriodID, a.BlockID)
}

// conflictFromUniqueViolation maps a violation of the per-slot unique indexes
// to the same error the locked read reports.
func conflictFromUniqueViolation(candidate *models.Assignment, err error) *models.ScheduleConflictError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return nil
	}
	conflict := models.ScheduleConflict{
		PeriodID:  candidate.PeriodID,
		BlockID:   candidate.BlockID,
		GroupID:   candidate.GroupID,
		TeacherID: candidate.TeacherID,
		RoomID:    candidate.RoomID,
	}
	switch constraint := strings.ToLower(pqErr.Constraint); {
	case strings.Contains(constraint, "teacher"):
		conflict.Dimension = models.ConflictDimensionTeacher
	case strings.Contains(constraint, "room"):
		conflict.Dimension = models.ConflictDimensionRoom
	case strings.Contains(constraint, "group"):
		conflict.Dimension = models.ConflictDimensionGroup
	default:
		return nil
	}
	return &models.ScheduleConflictError{
		Message:   "assignment collides with an existing booking",
		Conflicts: []models.ScheduleConflict{conflict},
	}
}
