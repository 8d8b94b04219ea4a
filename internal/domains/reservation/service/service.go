package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"mesa/config"
	"mesa/infras/otel"
	"mesa/internal/domains/reservation/allocation"
	"mesa/internal/domains/reservation/event"
	"mesa/internal/domains/reservation/model"
	"mesa/internal/domains/reservation/model/dto"
	"mesa/internal/domains/reservation/repository"
	tableModel "mesa/internal/domains/table/model"
	tableService "mesa/internal/domains/table/service"
	"mesa/shared"
	"mesa/shared/cache"
	"mesa/shared/constant"
	gDto "mesa/shared/dto"
	"mesa/shared/failure"
	"mesa/shared/logger"
	"mesa/shared/timezone"
)

const (
	cacheCustomerReservations = "reservation:phone"

	// Deliberately vague: a missing, foreign or already-cancelled reservation
	// all read the same from outside.
	cancellationNotFoundMessage = "no se encontraron reservas"

	noAvailabilityMessage = "no hay mesas disponibles para el horario solicitado"

	maxCodeAttempts = 5
)

// Reservation is the reservation ledger. Create allocates the best-fitting
// free table inside a single transaction; Cancel releases one; the two read
// operations never take locks.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (dto.CancellationResponse, error)
	CheckAvailability(ctx context.Context, partySize int, date string) (dto.AvailabilityResponse, error)
	ListForCustomer(ctx context.Context, phone string) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	catalog   tableService.Table
	publisher event.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Reservation,
	catalog tableService.Table,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create validates the request, then walks the best-fit candidate order and
// books the first table whose service window is free. A transient write
// conflict is retried exactly once against fresh state; a second conflict is
// reported as no availability rather than an internal error.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	when, err := req.ParseScheduledAt()
	if err != nil {
		return res, failure.BadRequestFromString("formato de fecha y hora inválido") //nolint:wrapcheck
	}

	maxPartySize, err := s.catalog.MaxPartySize(ctx)
	if err != nil {
		return res, err
	}

	if err = allocation.ValidatePartySize(req.PartySize, maxPartySize); err != nil {
		return res, err
	}

	if err = allocation.ValidateSchedule(when, timezone.Now()); err != nil {
		return res, err
	}

	window := model.NewWindow(when, s.serviceWindow())

	reservation, table, err := s.allocate(ctx, req, window)
	if failure.IsKind(err, failure.KindStorageConflict) {
		log.Warn().
			Str("phone", req.Phone).
			Time("scheduledAt", window.Start).
			Msg("reservation write conflict, retrying once against fresh state")

		reservation, table, err = s.allocate(ctx, req, window)
		if failure.IsKind(err, failure.KindStorageConflict) {
			err = failure.NoAvailability(noAvailabilityMessage) //nolint:wrapcheck
		}
	}

	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publisher.ReservationCreated(c, reservation.Phone, reservation.ID)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheCustomerReservations, reservation.Phone))
	}()

	res.FromModel(reservation, table)

	return res, nil
}

// allocate runs one attempt of the locked allocation loop. All storage errors
// escaping the transaction are folded into the failure taxonomy so the caller
// can branch on kind.
func (s *serviceImpl) allocate(
	ctx context.Context,
	req dto.CreateReservationRequest,
	window model.Window,
) (model.Reservation, tableModel.Table, error) {
	tables, err := s.catalog.ActiveTables(ctx, req.PreferredArea)
	if err != nil {
		return model.Reservation{}, tableModel.Table{}, err
	}

	candidates := allocation.Candidates(tables, req.PartySize)
	if len(candidates) == 0 {
		return model.Reservation{}, tableModel.Table{}, failure.NoAvailability(noAvailabilityMessage) //nolint:wrapcheck
	}

	var (
		created model.Reservation
		chosen  tableModel.Table
	)

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, candidate := range candidates {
			if err := s.repo.LockTableTx(ctx, tx, candidate.ID); err != nil {
				return err
			}

			conflict, err := s.repo.HasConflictTx(ctx, tx, candidate.ID, window)
			if err != nil {
				return err
			}

			if conflict {
				continue
			}

			reservation, err := s.insert(ctx, tx, req, window.Start, candidate.ID)
			if err != nil {
				return err
			}

			created = reservation
			chosen = candidate

			return nil
		}

		return failure.NoAvailability(noAvailabilityMessage) //nolint:wrapcheck
	})
	if err != nil {
		return model.Reservation{}, tableModel.Table{}, classifyStorageError(err)
	}

	return created, chosen, nil
}

func (s *serviceImpl) insert(
	ctx context.Context,
	tx *sqlx.Tx,
	req dto.CreateReservationRequest,
	scheduledAt time.Time,
	tableID string,
) (model.Reservation, error) {
	code, err := s.nextCode(ctx, tx)
	if err != nil {
		return model.Reservation{}, err
	}

	now := timezone.Now()
	reservation := model.Reservation{
		ID:               uuid.NewString(),
		Phone:            req.Phone,
		TableID:          tableID,
		PartySize:        req.PartySize,
		ScheduledAt:      scheduledAt,
		Status:           model.StatusConfirmed,
		ConfirmationCode: code,
	}
	reservation.CreatedAt = now
	reservation.ModifiedAt = now
	reservation.CreatedBy = req.Phone
	reservation.ModifiedBy = req.Phone

	if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
		return model.Reservation{}, err
	}

	return reservation, nil
}

// nextCode draws confirmation codes until one is free among confirmed
// reservations. The pre-check keeps the transaction clean; a race on the same
// code still trips the partial unique index and surfaces as a storage
// conflict, which create retries.
func (s *serviceImpl) nextCode(ctx context.Context, tx *sqlx.Tx) (string, error) {
	for range maxCodeAttempts {
		code, err := NewConfirmationCode()
		if err != nil {
			logger.ErrorWithStack(err)

			return "", err
		}

		inUse, err := s.repo.CodeInUseTx(ctx, tx, code)
		if err != nil {
			return "", err
		}

		if !inUse {
			return code, nil
		}
	}

	return "", errors.New("exhausted confirmation code attempts")
}

// classifyStorageError folds raw storage errors into the failure taxonomy.
// Serialization failures, deadlocks and unique-index races are transient
// conflicts; anything else from the store means it is unavailable.
func classifyStorageError(err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeSerializationFailure,
			constant.PqErrorCodeDeadlockDetected,
			constant.PqErrorCodeUniqueViolation:
			return failure.StorageConflict(fmt.Sprintf("concurrent reservation write conflict: %s", pqErr.Code)) //nolint:wrapcheck
		}
	}

	return failure.StorageUnavailable(err) //nolint:wrapcheck
}

// Cancel transitions an owned, still-confirmed reservation to cancelled. The
// guarded update makes concurrent cancellations of the same reservation safe:
// exactly one caller sees success, the rest get the generic answer.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (res dto.CancellationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	notFound := dto.CancellationResponse{
		Success: false,
		Error:   cancellationNotFoundMessage,
	}

	reservation, err := s.repo.Get(ctx, ownedReservationFilter(id, req.Phone))
	if err != nil {
		log.Error().Err(err).Msg("failed to look up reservation for cancellation")

		return res, failure.StorageUnavailable(fmt.Errorf("failed to look up reservation: %w", err)) //nolint:wrapcheck
	}

	if reservation.ID == constant.Empty || reservation.Status != model.StatusConfirmed {
		return notFound, nil
	}

	cancelled, err := s.repo.MarkCancelled(ctx, id, req.Phone)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return res, failure.StorageUnavailable(fmt.Errorf("failed to cancel reservation: %w", err)) //nolint:wrapcheck
	}

	if !cancelled {
		return notFound, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.publisher.ReservationCancelled(c, reservation.Phone, reservation.ID)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheCustomerReservations, reservation.Phone))
	}()

	return dto.CancellationResponse{
		Success:          true,
		ReservationID:    reservation.ID,
		ConfirmationCode: reservation.ConfirmationCode,
	}, nil
}

func ownedReservationFilter(id, phone string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldPhone,
				Value:    phone,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

// CheckAvailability walks the configured slot grid for the requested date and
// reports each slot where at least one sufficient table has a free window.
// Validation problems are reported inside the response, not raised: the
// caller renders them to the customer as-is.
func (s *serviceImpl) CheckAvailability(ctx context.Context, partySize int, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	res = dto.AvailabilityResponse{
		PartySize:      partySize,
		Date:           date,
		AvailableSlots: []string{},
	}

	day, parseErr := timezone.Parse(constant.DateOnlyFormat, date)
	if parseErr != nil {
		res.Error = "formato de fecha inválido, use AAAA-MM-DD"

		return res, nil
	}

	maxPartySize, err := s.catalog.MaxPartySize(ctx)
	if err != nil {
		return res, err
	}

	if validationErr := allocation.ValidatePartySize(partySize, maxPartySize); validationErr != nil {
		res.Error = validationErr.Error()

		return res, nil
	}

	tables, err := s.catalog.ActiveTables(ctx, constant.Empty)
	if err != nil {
		return res, err
	}

	candidates := allocation.Candidates(tables, partySize)
	slots := s.serviceSlots(day)
	now := timezone.Now()

	res.TotalSlots = len(slots)

	for _, slot := range slots {
		if !slot.After(now) {
			continue
		}

		window := model.NewWindow(slot, s.serviceWindow())

		free, err := s.slotHasFreeTable(ctx, candidates, window)
		if err != nil {
			return res, err
		}

		if free {
			res.AvailableSlots = append(res.AvailableSlots, timezone.Format(slot, constant.SlotTimeFormat))
		}
	}

	res.Available = len(res.AvailableSlots) > 0

	return res, nil
}

func (s *serviceImpl) slotHasFreeTable(ctx context.Context, candidates []tableModel.Table, window model.Window) (bool, error) {
	for _, candidate := range candidates {
		conflict, err := s.repo.HasConflict(ctx, candidate.ID, window)
		if err != nil {
			log.Error().Err(err).Msg("failed to check slot availability")

			return false, failure.StorageUnavailable(fmt.Errorf("failed to check slot availability: %w", err)) //nolint:wrapcheck
		}

		if !conflict {
			return true, nil
		}
	}

	return false, nil
}

// ListForCustomer returns every reservation of a customer, including
// cancelled ones, oldest first. Results are cached per phone and invalidated
// by create and cancel.
func (s *serviceImpl) ListForCustomer(ctx context.Context, phone string) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ListForCustomer")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheCustomerReservations, phone)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for customer reservations")

		return res, nil
	}

	reservations, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer reservations")

		return res, failure.StorageUnavailable(fmt.Errorf("failed to get customer reservations: %w", err)) //nolint:wrapcheck
	}

	res.FromModels(reservations)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save customer reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) serviceWindow() time.Duration {
	return time.Duration(s.cfg.Restaurant.ServiceWindowMinutes) * time.Minute
}

// serviceSlots enumerates the daily slot grid in the restaurant's timezone:
// every interval from opening up to, but excluding, closing.
func (s *serviceImpl) serviceSlots(day time.Time) []time.Time {
	restaurant := s.cfg.Restaurant
	location := timezone.GetLocation()

	open := time.Date(day.Year(), day.Month(), day.Day(), restaurant.OpenHour, 0, 0, 0, location)
	close := time.Date(day.Year(), day.Month(), day.Day(), restaurant.CloseHour, 0, 0, 0, location)
	step := time.Duration(restaurant.SlotIntervalMinutes) * time.Minute

	var slots []time.Time
	for slot := open; slot.Before(close); slot = slot.Add(step) {
		slots = append(slots, slot)
	}

	return slots
}
