package reservation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"mesa/infras/otel"
	"mesa/internal/domains/reservation/model/dto"
	"mesa/internal/domains/reservation/service"
	"mesa/shared/constant"
	"mesa/shared/failure"
	"mesa/shared/validator"
	"mesa/transport/http/response"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Delete("/{id}", handler.CancelReservation)
	})

	router.Get("/availability", handler.CheckAvailability)
}

// CreateReservation books the best-fitting free table for the requested
// party and time.
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation created successfully: " + reservation.ReservationID)

	response.WithJSON(writer, http.StatusCreated, reservation)
}

// GetReservations lists every reservation of one customer, identified by
// phone.
func (handler *Handler) GetReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	phone := request.URL.Query().Get(constant.RequestParamPhone)
	if err := validator.ValidateVar(phone, "required,min=8,max=20"); err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequestFromString("a valid phone query parameter is required"))

		return
	}

	reservations, err := handler.service.ListForCustomer(ctx, phone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get customer reservations")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Customer reservations retrieved successfully")

	response.WithJSON(writer, http.StatusOK, reservations)
}

// CancelReservation releases an owned reservation. The response is
// deliberately generic when the reservation does not exist, belongs to
// someone else or is already cancelled.
func (handler *Handler) CancelReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.CancelReservationRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Cancellation processed for reservation " + id)

	response.WithJSON(writer, http.StatusOK, res)
}

// CheckAvailability reports the free service slots for a party size on a
// date.
func (handler *Handler) CheckAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	partySizeParam := request.URL.Query().Get(constant.RequestParamPartySize)
	partySize, err := strconv.Atoi(partySizeParam)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequestFromString("a numeric party_size query parameter is required"))

		return
	}

	date := request.URL.Query().Get(constant.RequestParamDate)
	if date == "" {
		response.WithError(writer, failure.BadRequestFromString("a date query parameter is required"))

		return
	}

	availability, err := handler.service.CheckAvailability(ctx, partySize, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Availability checked successfully")

	response.WithJSON(writer, http.StatusOK, availability)
}
