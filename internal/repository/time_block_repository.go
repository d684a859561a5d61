package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

const timeBlockColumns = `id, name, weekday, to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time`

// TimeBlockRepository reads the weekly block grid.
type TimeBlockRepository struct {
	db *sqlx.DB
}

// NewTimeBlockRepository constructs a time block repository.
func NewTimeBlockRepository(db *sqlx.DB) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

// List returns every block ordered by weekday and start time.
func (r *TimeBlockRepository) List(ctx context.Context) ([]models.TimeBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM time_blocks ORDER BY weekday ASC, start_time ASC, id ASC", timeBlockColumns)
	var blocks []models.TimeBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	return blocks, nil
}

// FindByID loads a single block. sql.ErrNoRows is returned untouched.
func (r *TimeBlockRepository) FindByID(ctx context.Context, id int64) (*models.TimeBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM time_blocks WHERE id = $1", timeBlockColumns)
	var block models.TimeBlock
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}
