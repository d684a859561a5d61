package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// AvailabilityRepository reads declared teacher availability.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByPeriod returns availability entries of a period, or every entry when periodID is zero.
func (r *AvailabilityRepository) ListByPeriod(ctx context.Context, periodID int64) ([]models.TeacherAvailability, error) {
	query := `SELECT id, teacher_id, period_id, COALESCE(weekday, 0) AS weekday, block_id, is_available FROM teacher_availability`
	var args []interface{}
	if periodID > 0 {
		query += " WHERE period_id = $1"
		args = append(args, periodID)
	}
	query += " ORDER BY teacher_id ASC, id ASC"

	var entries []models.TeacherAvailability
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	return entries, nil
}
