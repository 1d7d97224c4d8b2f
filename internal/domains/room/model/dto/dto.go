package dto

import (
	"hotelbooking/internal/domains/room/model"
	"hotelbooking/shared"
	gDto "hotelbooking/shared/dto"
	gModel "hotelbooking/shared/model"
	"hotelbooking/shared/timezone"
)

// RoomRequest carries the full set of mutable room fields. Create and Update share
// it; an update replaces the stored record wholesale.
type RoomRequest struct {
	HotelID       int64   `json:"hotel_id"        validate:"required"`
	RoomNumber    string  `json:"room_number"     validate:"required,max=20"`
	RoomType      string  `json:"room_type"       validate:"required,max=50"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int     `json:"capacity"        validate:"required,gt=0"`
}

func (r *RoomRequest) ToModel() model.Room {
	return model.Room{
		HotelID:       r.HotelID,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

// ToUpdateFields maps the request onto db columns for a wholesale replace. The
// identifier and hotel ownership of the row are preserved by the filter, not here.
type roomUpdateFields struct {
	HotelID       int64   `db:"hotel_id"`
	RoomNumber    string  `db:"room_number"`
	RoomType      string  `db:"room_type"`
	PricePerNight float64 `db:"price_per_night"`
	Capacity      int     `db:"capacity"`
}

func (r *RoomRequest) ToUpdateFields() map[string]any {
	return shared.TransformFields(roomUpdateFields{
		HotelID:       r.HotelID,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
	})
}

type RoomResponse struct {
	ID            int64   `json:"id"`
	HotelID       int64   `json:"hotel_id"`
	RoomNumber    string  `json:"room_number"`
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.PricePerNight = model.PricePerNight
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
