package models

// Room is a physical space; RoomTypeID classifies it (lecture hall, lab, ...).
type Room struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Capacity   int    `db:"capacity" json:"capacity"`
	RoomTypeID int64  `db:"room_type_id" json:"room_type_id"`
}
