package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

const subjectSelect = `SELECT s.id, s.code, s.name, s.required_room_type_id,
       COALESCE(array_agg(ss.specialty_id ORDER BY ss.specialty_id) FILTER (WHERE ss.specialty_id IS NOT NULL), '{}') AS required_specialty_ids
FROM subjects s
LEFT JOIN subject_specialties ss ON ss.subject_id = s.id`

// SubjectRepository reads subjects with their requirements.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns every subject ordered by id.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	query := subjectSelect + `
GROUP BY s.id
ORDER BY s.id ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := subjectSelect + `
WHERE s.id = $1
GROUP BY s.id`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}
