package booking

import (
	"fmt"
	"net/http"

	"hotelbooking/infras/otel"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/internal/domains/booking/service"
	"hotelbooking/shared"
	"hotelbooking/shared/constant"
	"hotelbooking/shared/failure"
	"hotelbooking/shared/validator"
	"hotelbooking/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/{id}", handler.GetBookingByID)
	})
}

// customerID resolves the requesting customer. The auth middleware puts the id of
// an authenticated caller on the context; unauthenticated callers may identify
// themselves through the customer_id query parameter.
func customerID(request *http.Request) (int64, error) {
	if id, ok := request.Context().Value(constant.ContextKeyCustomerID).(int64); ok {
		return id, nil
	}

	id, err := shared.ConvertStringToInt64(request.URL.Query().Get(constant.RequestParamCustomerID))
	if err != nil {
		return 0, failure.Unauthorized("customer identity required") //nolint:wrapcheck
	}

	return id, nil
}

// CreateBooking submits a stay for admission and answers 201 with the committed
// booking and its Location.
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	customer, err := customerID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	var req dto.CreateBookingRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, customer, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	response.WithCreated(writer, fmt.Sprintf("/v1/bookings/%d", res.ID), res)
}

func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	customer, err := customerID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id, err := shared.ConvertStringToInt64(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, failure.BadRequestFromString("invalid id parameter"))

		return
	}

	res, err := handler.service.Get(ctx, id, customer)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
