package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// GroupRepository reads class groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns every group ordered by code.
func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, code, estimated_students, COALESCE(preferred_shift, '') AS preferred_shift FROM groups ORDER BY code ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID loads a group by id.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	const query = `SELECT id, code, estimated_students, COALESCE(preferred_shift, '') AS preferred_shift FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}
