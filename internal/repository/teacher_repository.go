package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

const teacherSelect = `SELECT t.id, t.first_name, t.last_name,
       COALESCE(array_agg(ts.specialty_id ORDER BY ts.specialty_id) FILTER (WHERE ts.specialty_id IS NOT NULL), '{}') AS specialty_ids
FROM teachers t
LEFT JOIN teacher_specialties ts ON ts.teacher_id = t.id`

// TeacherRepository reads teachers with their specialties.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns every teacher ordered by id.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	query := teacherSelect + `
GROUP BY t.id
ORDER BY t.id ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID loads a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := teacherSelect + `
WHERE t.id = $1
GROUP BY t.id`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}
