package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotelbooking/infras/otel"
	"hotelbooking/infras/postgres"
	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/shared/constant"
	gDto "hotelbooking/shared/dto"
	"hotelbooking/shared/logger"
	gRepo "hotelbooking/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Sentinel outcomes of an admission attempt; the service layer translates them
// into caller-facing failures.
var (
	ErrRoomUnavailable = errors.New("room is already booked for the requested dates")
	ErrRoomMissing     = errors.New("room does not exist")
)

const lockRoomQuery = "SELECT id FROM rooms WHERE id = $1 FOR UPDATE"

type Booking interface {
	Insert(ctx context.Context, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	HasOverlap(ctx context.Context, roomID int64, rng model.DateRange) (bool, error)
	CreateIfAvailable(ctx context.Context, booking model.Booking) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// overlapFilter matches every booking of the room whose closed date interval
// shares at least one date with the requested range: stored.check_in <= req.check_out
// AND stored.check_out >= req.check_in.
func overlapFilter(roomID int64, rng model.DateRange) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckIn,
				ArgName:  "req_check_out",
				Value:    rng.End,
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckOut,
				ArgName:  "req_check_in",
				Value:    rng.Start,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		},
	}
}

func (repo *repositoryImpl) HasOverlap(ctx context.Context, roomID int64, rng model.DateRange) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlap")
	defer scope.End()

	return repo.Exist(ctx, overlapFilter(roomID, rng)) //nolint:wrapcheck
}

// CreateIfAvailable admits the booking only if no stored booking of the same room
// overlaps its date range. The check and the insert run in one transaction that
// first locks the parent room row, so concurrent admissions for one room
// serialize and exactly one of two overlapping submissions succeeds. The schema's
// exclusion constraint backstops the same rule; its violation reports as
// ErrRoomUnavailable too.
func (repo *repositoryImpl) CreateIfAvailable(ctx context.Context, booking model.Booking) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateIfAvailable")
	defer scope.End()

	var id int64

	err := repo.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var lockedRoomID int64

		err := tx.GetContext(ctx, &lockedRoomID, lockRoomQuery, booking.RoomID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomMissing
		}

		if err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to lock room row: %w", err)
		}

		exists, err := repo.ExistTx(ctx, tx, overlapFilter(booking.RoomID, booking.Range()))
		if err != nil {
			return fmt.Errorf("failed to check booking overlap: %w", err)
		}

		if exists {
			return ErrRoomUnavailable
		}

		id, err = repo.InsertTx(ctx, tx, booking)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
				return ErrRoomUnavailable
			}

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return id, nil
}
