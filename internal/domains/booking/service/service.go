package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hotelbooking/config"
	"hotelbooking/infras/kafka"
	"hotelbooking/infras/otel"
	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/internal/domains/booking/repository"
	roomModel "hotelbooking/internal/domains/room/model"
	roomRepo "hotelbooking/internal/domains/room/repository"
	"hotelbooking/shared"
	"hotelbooking/shared/cache"
	"hotelbooking/shared/constant"
	"hotelbooking/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking = "booking:get"
)

type Booking interface {
	Create(ctx context.Context, customerID int64, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id, customerID int64) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	kafka    kafka.Client
	otel     otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, kafka kafka.Client, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		kafka:    kafka,
		otel:     otel,
	}
}

// Create admits a stay. The date range is validated before any storage access;
// admission itself is atomic in the repository, so two racing overlapping
// submissions for one room never both succeed.
func (s *serviceImpl) Create(ctx context.Context, customerID int64, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	rng, err := req.Range()
	if err != nil {
		if errors.Is(err, model.ErrEndNotAfterStart) {
			return res, failure.BadRequestFromString(model.ErrInvalidDateRange) //nolint:wrapcheck
		}

		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	roomExists, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return res, failure.NotFoundWithID(roomModel.ErrRoomNotFound, req.RoomID) //nolint:wrapcheck
	}

	booking := req.ToModel(customerID, rng)

	id, err := s.repo.CreateIfAvailable(ctx, booking)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomUnavailable):
			log.Warn().Int64("roomID", req.RoomID).Str("checkIn", req.CheckIn).Str("checkOut", req.CheckOut).
				Msg("booking rejected, room unavailable")

			return res, failure.Conflict(model.ErrRoomUnavailable) //nolint:wrapcheck
		case errors.Is(err, repository.ErrRoomMissing):
			return res, failure.NotFoundWithID(roomModel.ErrRoomNotFound, req.RoomID) //nolint:wrapcheck
		default:
			log.Error().Err(err).Msg("failed to create booking")

			return res, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	booking.ID = id
	res.FromModel(booking)

	go s.publishCreated(ctx, booking)

	return res, nil
}

// publishCreated emits the booking created event and drops stale caches. Both are
// best effort; the admission has already committed.
func (s *serviceImpl) publishCreated(ctx context.Context, booking model.Booking) {
	c := context.WithoutCancel(ctx)

	message := kafka.Message{
		Key:   strconv.FormatInt(booking.RoomID, 10),
		Value: dto.NewBookingCreatedEvent(booking),
	}

	if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingCreated, message); err != nil {
		log.Error().Err(err).Int64("bookingID", booking.ID).Msg("failed to publish booking created event")
	}

	shared.InvalidateCaches(c, s.cache, cacheGetBooking)
}

func (s *serviceImpl) Get(ctx context.Context, id, customerID int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return s.authorize(res, customerID)
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFoundWithID(model.ErrBookingNotFound, id) //nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return s.authorize(res, customerID)
}

// authorize enforces owner-only reads. The check runs after every fetch, cache
// hits included.
func (s *serviceImpl) authorize(res dto.BookingResponse, customerID int64) (dto.BookingResponse, error) {
	if res.CustomerID != customerID {
		return dto.BookingResponse{}, failure.Forbidden(model.ErrBookingForbidden) //nolint:wrapcheck
	}

	return res, nil
}
