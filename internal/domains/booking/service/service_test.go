package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbooking/config"
	kafkaMocks "hotelbooking/infras/kafka/mocks"
	"hotelbooking/infras/otel/mocks"
	cacheMocks "hotelbooking/shared/cache/mocks"
	"hotelbooking/shared/failure"

	bookingMocks "hotelbooking/internal/domains/booking/mocks"
	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/internal/domains/booking/repository"
	"hotelbooking/internal/domains/booking/service"
	roomMocks "hotelbooking/internal/domains/room/mocks"
)

func validRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		HotelID:  1,
		RoomID:   3,
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-15",
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingCreated = "booking.created"

	published := make(chan struct{}, 4)

	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			published <- struct{}{}

			return nil
		}).
		AnyTimes()

	svc := service.New(mockRepo, mockRoomRepo, cfg, mockCache, mockKafka, mockOtel)

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func()
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful admission",
			req:  validRequest(),
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateIfAvailable(gomock.Any(), gomock.Any()).
					Return(int64(11), nil)
			},
		},
		{
			name: "check-out equal to check-in rejected before storage",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.CheckOut = req.CheckIn

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Check-out date must be after check-in date.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "check-out before check-in rejected before storage",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.CheckIn = "2026-09-15"
				req.CheckOut = "2026-09-10"

				return req
			}(),
			setupMock: func() {},
			wantErr:   "Check-out date must be after check-in date.",
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "malformed date rejected before storage",
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.CheckIn = "10-09-2026"

				return req
			}(),
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "room not found",
			req:  validRequest(),
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  "Room with ID 3 not found.",
			wantCode: http.StatusNotFound,
		},
		{
			name: "overlapping booking rejected",
			req:  validRequest(),
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateIfAvailable(gomock.Any(), gomock.Any()).
					Return(int64(0), repository.ErrRoomUnavailable)
			},
			wantErr:  "Room is already booked for the selected dates.",
			wantCode: http.StatusConflict,
		},
		{
			name: "room vanished during admission",
			req:  validRequest(),
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateIfAvailable(gomock.Any(), gomock.Any()).
					Return(int64(0), repository.ErrRoomMissing)
			},
			wantErr:  "Room with ID 3 not found.",
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			req:  validRequest(),
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					CreateIfAvailable(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("database error"))
			},
			wantErr:  "failed to create booking",
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(context.Background(), 7, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantErr != "" {
					assert.Contains(t, err.Error(), tt.wantErr)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, int64(11), res.ID)
			assert.Equal(t, int64(7), res.CustomerID)
			assert.Equal(t, tt.req.RoomID, res.RoomID)
			assert.Equal(t, tt.req.CheckIn, res.CheckIn)
			assert.Equal(t, tt.req.CheckOut, res.CheckOut)

			waitForPublish(t, published)
		})
	}
}

// waitForPublish joins the background publication goroutine so it cannot touch
// the mocks after the controller finishes.
func waitForPublish(t *testing.T, published <-chan struct{}) {
	t.Helper()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for booking created publication")
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockRoomRepo, cfg, mockCache, mockKafka, mockOtel)

	stored := model.Booking{
		ID:         11,
		CustomerID: 7,
		HotelID:    1,
		RoomID:     3,
		CheckIn:    mustRange(t, 10, 15).Start,
		CheckOut:   mustRange(t, 10, 15).End,
	}

	tests := []struct {
		name       string
		id         int64
		customerID int64
		setupMock  func()
		wantCode   int
	}{
		{
			name:       "owner reads own booking",
			id:         11,
			customerID: 7,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(stored, nil)
			},
		},
		{
			name:       "not found carries id",
			id:         99,
			customerID: 7,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:       "other customer forbidden",
			id:         11,
			customerID: 8,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(stored, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:       "ownership enforced on cache hit",
			id:         11,
			customerID: 8,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.BookingResponse)
						res.FromModel(stored)

						return nil
					})
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id, tt.customerID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusNotFound {
					assert.Contains(t, err.Error(), "Booking with ID 99 not found.")

					id, ok := failure.GetEntityID(err)
					assert.True(t, ok)
					assert.Equal(t, int64(99), id)
				}

				if tt.wantCode == http.StatusForbidden {
					assert.Contains(t, err.Error(), "You do not have access to this booking.")
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, stored.ID, res.ID)
			assert.Equal(t, "2026-09-10", res.CheckIn)
			assert.Equal(t, "2026-09-15", res.CheckOut)
		})
	}
}

// Reading the same booking twice without a write in between yields equal
// responses, whether the second read comes from the cache or the database.
func TestBookingService_RepeatedReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockRoomRepo, cfg, mockCache, mockKafka, mockOtel)

	stored := model.Booking{
		ID:         11,
		CustomerID: 7,
		HotelID:    1,
		RoomID:     3,
		CheckIn:    mustRange(t, 10, 15).Start,
		CheckOut:   mustRange(t, 10, 15).End,
	}

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(stored, nil)

	first, err := svc.Get(context.Background(), 11, 7)
	assert.NoError(t, err)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, _ := value.(*dto.BookingResponse)
			res.FromModel(stored)

			return nil
		})

	second, err := svc.Get(context.Background(), 11, 7)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(stored, nil)

	third, err := svc.Get(context.Background(), 11, 7)
	assert.NoError(t, err)
	assert.Equal(t, first, third)
}

func mustRange(t *testing.T, startDay, endDay int) model.DateRange {
	t.Helper()

	rng, err := model.NewDateRange(day(startDay), day(endDay))
	assert.NoError(t, err)

	return rng
}

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

// fakeBookingRepo is a mutex-guarded in-memory admission store. It mirrors the
// real repository's check-then-insert atomicity so concurrent submissions can be
// exercised without a database.
type fakeBookingRepo struct {
	bookingMocks.MockBooking

	mu       sync.Mutex
	nextID   int64
	bookings []model.Booking
}

func (f *fakeBookingRepo) CreateIfAvailable(_ context.Context, booking model.Booking) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, stored := range f.bookings {
		if stored.RoomID == booking.RoomID && stored.Range().Overlaps(booking.Range()) {
			return 0, repository.ErrRoomUnavailable
		}
	}

	f.nextID++
	booking.ID = f.nextID
	f.bookings = append(f.bookings, booking)

	return booking.ID, nil
}

func TestBookingService_ConcurrentOverlappingSubmissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingCreated = "booking.created"

	const attempts = 2

	published := make(chan struct{}, attempts)

	mockRoomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			published <- struct{}{}

			return nil
		}).
		AnyTimes()

	fakeRepo := &fakeBookingRepo{}

	svc := service.New(fakeRepo, mockRoomRepo, cfg, mockCache, mockKafka, mockOtel)

	var wg sync.WaitGroup

	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(context.Background(), 7, validRequest())
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successes, conflicts := 0, 0

	for err := range results {
		if err == nil {
			successes++

			continue
		}

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, fakeRepo.bookings, 1)

	waitForPublish(t, published)
}
