package dto

import (
	"time"

	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/shared/constant"
	gDto "hotelbooking/shared/dto"
	gModel "hotelbooking/shared/model"
	"hotelbooking/shared/timezone"
)

// CreateBookingRequest is the submission payload. The requesting customer is
// resolved by the transport layer, never trusted from the body.
type CreateBookingRequest struct {
	HotelID  int64  `json:"hotel_id"  validate:"required"`
	RoomID   int64  `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
}

// Range parses the stay dates. A malformed date or an inverted range surfaces as
// the constructor error.
func (r *CreateBookingRequest) Range() (model.DateRange, error) {
	checkIn, err := time.Parse(constant.DateOnlyFormat, r.CheckIn)
	if err != nil {
		return model.DateRange{}, err //nolint:wrapcheck
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, r.CheckOut)
	if err != nil {
		return model.DateRange{}, err //nolint:wrapcheck
	}

	return model.NewDateRange(checkIn, checkOut) //nolint:wrapcheck
}

func (r *CreateBookingRequest) ToModel(customerID int64, rng model.DateRange) model.Booking {
	return model.Booking{
		CustomerID: customerID,
		HotelID:    r.HotelID,
		RoomID:     r.RoomID,
		CheckIn:    rng.Start,
		CheckOut:   rng.End,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

type BookingResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	HotelID    int64  `json:"hotel_id"`
	RoomID     int64  `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.HotelID = model.HotelID
	r.RoomID = model.RoomID
	r.CheckIn = model.CheckIn.UTC().Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.UTC().Format(constant.DateOnlyFormat)
	r.Metadata.FromModel(model.Metadata)
}

// BookingCreatedEvent is the payload published to the booking created topic after
// a successful admission.
type BookingCreatedEvent struct {
	BookingID  int64  `json:"booking_id"`
	CustomerID int64  `json:"customer_id"`
	HotelID    int64  `json:"hotel_id"`
	RoomID     int64  `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

func NewBookingCreatedEvent(model model.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:  model.ID,
		CustomerID: model.CustomerID,
		HotelID:    model.HotelID,
		RoomID:     model.RoomID,
		CheckIn:    model.CheckIn.UTC().Format(constant.DateOnlyFormat),
		CheckOut:   model.CheckOut.UTC().Format(constant.DateOnlyFormat),
	}
}
