package model

import (
	"time"

	"hotelbooking/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldCustomerID = "customer_id"
	FieldHotelID    = "hotel_id"
	FieldRoomID     = "room_id"
	FieldCheckIn    = "check_in"
	FieldCheckOut   = "check_out"
)

// Fixed messages surfaced to callers.
const (
	ErrInvalidDateRange = "Check-out date must be after check-in date."
	ErrRoomUnavailable  = "Room is already booked for the selected dates."
	ErrBookingNotFound  = "Booking with ID %d not found."
	ErrBookingForbidden = "You do not have access to this booking."
)

// Booking is an admitted stay of one customer in one room. Bookings are immutable
// once committed; there are no update or cancel paths.
type Booking struct {
	ID         int64     `db:"id"`
	CustomerID int64     `db:"customer_id"`
	HotelID    int64     `db:"hotel_id"`
	RoomID     int64     `db:"room_id"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	model.Metadata
}

// Range returns the stay as a date range. Stored bookings always satisfy the
// range constructor, so the error is ignored.
func (b *Booking) Range() DateRange {
	rng, _ := NewDateRange(b.CheckIn, b.CheckOut)

	return rng
}
