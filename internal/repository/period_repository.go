package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// PeriodRepository reads academic periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs a period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// FindByID loads a period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	const query = `SELECT id, name FROM periods WHERE id = $1`
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}
