package models

import "github.com/lib/pq"

// Subject carries the teacher specialties and room type it requires.
// An empty specialty set or a nil room type leaves that axis unconstrained.
type Subject struct {
	ID                   int64         `db:"id" json:"id"`
	Code                 string        `db:"code" json:"code"`
	Name                 string        `db:"name" json:"name"`
	RequiredSpecialtyIDs pq.Int64Array `db:"required_specialty_ids" json:"required_specialty_ids"`
	RequiredRoomTypeID   *int64        `db:"required_room_type_id" json:"required_room_type_id,omitempty"`
}
