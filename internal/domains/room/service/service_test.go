package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbooking/config"
	"hotelbooking/infras/otel/mocks"
	cacheMocks "hotelbooking/shared/cache/mocks"
	gDto "hotelbooking/shared/dto"
	"hotelbooking/shared/failure"

	"hotelbooking/internal/domains/room/model"
	"hotelbooking/internal/domains/room/model/dto"
	roomMocks "hotelbooking/internal/domains/room/mocks"
	"hotelbooking/internal/domains/room/service"
)

func validRequest() dto.RoomRequest {
	return dto.RoomRequest{
		HotelID:       1,
		RoomNumber:    "101",
		RoomType:      "Deluxe",
		PricePerNight: 150,
		Capacity:      2,
	}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		req       dto.RoomRequest
		setupMock func()
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  validRequest(),
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(7), nil)
			},
		},
		{
			name: "empty room number",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.RoomNumber = "   "

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Room number cannot be empty.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "empty room type",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.RoomType = ""

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Room type cannot be empty.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "non-positive price",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.PricePerNight = 0

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Price per night must be greater than zero.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "non-positive capacity",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.Capacity = -1

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Capacity must be greater than zero.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "duplicate room number for hotel",
			req:  validRequest(),
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(0), &pq.Error{Code: "23505"})
			},
			wantErr:  "Room number already exists for this hotel.",
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  validRequest(),
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("database error"))
			},
			wantErr:  "failed to create room",
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, int64(7), res.ID)
			assert.Equal(t, tt.req.RoomNumber, res.RoomNumber)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	storedRoom := model.Room{
		ID:            42,
		HotelID:       1,
		RoomNumber:    "101",
		RoomType:      "Deluxe",
		PricePerNight: 150,
		Capacity:      2,
	}

	tests := []struct {
		name      string
		id        int64
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "found in database",
			id:   42,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(storedRoom, nil)
			},
		},
		{
			name: "not found",
			id:   99,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			id:   42,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusNotFound {
					assert.Contains(t, err.Error(), "Room with ID 99 not found.")

					id, ok := failure.GetEntityID(err)
					assert.True(t, ok)
					assert.Equal(t, int64(99), id)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, storedRoom.ID, res.ID)
			assert.Equal(t, storedRoom.RoomNumber, res.RoomNumber)
		})
	}
}

// Reading the same room twice without a write in between yields equal
// responses, whether the second read comes from the cache or the database.
func TestRoomService_RepeatedReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	storedRoom := model.Room{
		ID:            42,
		HotelID:       1,
		RoomNumber:    "101",
		RoomType:      "Deluxe",
		PricePerNight: 150,
		Capacity:      2,
	}

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(storedRoom, nil)

	first, err := svc.Get(context.Background(), 42)
	assert.NoError(t, err)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, _ := value.(*dto.RoomResponse)
			res.FromModel(storedRoom)

			return nil
		})

	second, err := svc.Get(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(storedRoom, nil)

	third, err := svc.Get(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestRoomService_GetByHotel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("empty hotel yields empty list without error", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return([]model.Room{}, nil)

		res, err := svc.GetByHotel(context.Background(), 5, params)

		assert.NoError(t, err)
		assert.Empty(t, res.Rooms)
		assert.Equal(t, 0, res.TotalData)
	})

	t.Run("returns rooms for hotel", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return([]model.Room{{ID: 1, HotelID: 5}, {ID: 2, HotelID: 5}}, nil)

		res, err := svc.GetByHotel(context.Background(), 5, params)

		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.GetByHotel(context.Background(), 5, params)

		assert.NoError(t, err)
		assert.Empty(t, res.Rooms)
	})
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	existing := model.Room{ID: 42, HotelID: 1, RoomNumber: "101", RoomType: "Deluxe", PricePerNight: 150, Capacity: 2}

	tests := []struct {
		name      string
		req       dto.RoomRequest
		setupMock func()
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful update",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.RoomType = "Suite"

				return req
			}(),
			setupMock: func() {
				updated := existing
				updated.RoomType = "Suite"

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(updated, nil)
			},
		},
		{
			name: "room not found",
			req:  validRequest(),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  "Room with ID 42 not found.",
			wantCode: http.StatusNotFound,
		},
		{
			name: "validation runs after existence check",
			req: func() dto.RoomRequest {
				req := validRequest()
				req.Capacity = 0

				return req
			}(),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr:  "Capacity must be greater than zero.",
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate room number",
			req:  validRequest(),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23505"})
			},
			wantErr:  "Room number already exists for this hotel.",
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Update(context.Background(), 42, tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, int64(42), res.ID)
			assert.Equal(t, "Suite", res.RoomType)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful delete",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "room not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "existence check error",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(context.Background(), 42)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
