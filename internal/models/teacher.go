package models

import (
	"strings"

	"github.com/lib/pq"
)

// Teacher is a candidate instructor with the specialties it can cover.
type Teacher struct {
	ID           int64         `db:"id" json:"id"`
	FirstName    string        `db:"first_name" json:"first_name"`
	LastName     string        `db:"last_name" json:"last_name"`
	SpecialtyIDs pq.Int64Array `db:"specialty_ids" json:"specialty_ids"`
}

// FullName joins first and last name.
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
