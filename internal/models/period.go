package models

// Period is an academic term.
type Period struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
