package validator_test

import (
	"strings"
	"testing"

	"hotelbooking/shared/failure"
	"hotelbooking/shared/validator"

	"github.com/stretchr/testify/assert"
)

type createRoomPayload struct {
	HotelID       int64   `json:"hotel_id"        validate:"required"`
	RoomNumber    string  `json:"room_number"     validate:"required,max=20"`
	RoomType      string  `json:"room_type"       validate:"required,max=50"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int     `json:"capacity"        validate:"required,gt=0"`
}

type createBookingPayload struct {
	HotelID  int64  `json:"hotel_id"  validate:"required"`
	RoomID   int64  `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		payload createRoomPayload
		wantErr bool
	}{
		{
			name: "valid room payload",
			payload: createRoomPayload{
				HotelID:       1,
				RoomNumber:    "101",
				RoomType:      "double",
				PricePerNight: 120.50,
				Capacity:      2,
			},
			wantErr: false,
		},
		{
			name: "missing room number",
			payload: createRoomPayload{
				HotelID:       1,
				RoomType:      "double",
				PricePerNight: 120.50,
				Capacity:      2,
			},
			wantErr: true,
		},
		{
			name: "negative price",
			payload: createRoomPayload{
				HotelID:       1,
				RoomNumber:    "101",
				RoomType:      "double",
				PricePerNight: -5,
				Capacity:      2,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.payload)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DecodesAndValidates(t *testing.T) {
	body := strings.NewReader(`{"hotel_id":1,"room_id":2,"check_in":"2026-09-01","check_out":"2026-09-05"}`)

	var payload createBookingPayload
	err := validator.Validate(body, &payload)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), payload.RoomID)
	assert.Equal(t, "2026-09-01", payload.CheckIn)
}

func TestValidate_RejectsMalformedJSON(t *testing.T) {
	body := strings.NewReader(`{"hotel_id":`)

	var payload createBookingPayload
	err := validator.Validate(body, &payload)

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestValidate_DateOnlyTag(t *testing.T) {
	tests := []struct {
		name    string
		checkIn string
		wantErr bool
	}{
		{name: "valid date", checkIn: "2026-09-01", wantErr: false},
		{name: "datetime rejected", checkIn: "2026-09-01T10:00:00Z", wantErr: true},
		{name: "garbage rejected", checkIn: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := createBookingPayload{
				HotelID:  1,
				RoomID:   2,
				CheckIn:  tt.checkIn,
				CheckOut: "2026-09-05",
			}

			err := validator.ValidateStruct(&payload)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
