package model

import "hotelbooking/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldHotelID       = "hotel_id"
	FieldRoomNumber    = "room_number"
	FieldRoomType      = "room_type"
	FieldPricePerNight = "price_per_night"
	FieldCapacity      = "capacity"
)

// Error messages surfaced to callers; field validation failures are raised before
// any storage access.
const (
	ErrInvalidRoomNumber    = "Room number cannot be empty."
	ErrInvalidRoomType      = "Room type cannot be empty."
	ErrInvalidPricePerNight = "Price per night must be greater than zero."
	ErrInvalidCapacity      = "Capacity must be greater than zero."
	ErrRoomNotFound         = "Room with ID %d not found."
	ErrRoomNumberExists     = "Room number already exists for this hotel."
)

type Room struct {
	ID            int64   `db:"id"`
	HotelID       int64   `db:"hotel_id"`
	RoomNumber    string  `db:"room_number"`
	RoomType      string  `db:"room_type"`
	PricePerNight float64 `db:"price_per_night"`
	Capacity      int     `db:"capacity"`
	model.Metadata
}
