package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mesa/config"
	"mesa/infras/otel/mocks"
	eventMocks "mesa/internal/domains/reservation/event/mocks"
	reservationMocks "mesa/internal/domains/reservation/mocks"
	"mesa/internal/domains/reservation/model"
	"mesa/internal/domains/reservation/model/dto"
	"mesa/internal/domains/reservation/service"
	tableModel "mesa/internal/domains/table/model"
	tableMocks "mesa/internal/domains/table/service/mocks"
	cacheMocks "mesa/shared/cache/mocks"
	"mesa/shared/constant"
	"mesa/shared/failure"
	"mesa/shared/timezone"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Restaurant.OpenHour = 12
	cfg.Restaurant.CloseHour = 23
	cfg.Restaurant.SlotIntervalMinutes = 60
	cfg.Restaurant.ServiceWindowMinutes = 120

	return cfg
}

func testTables() []tableModel.Table {
	return []tableModel.Table{
		{ID: "tbl-1", Number: "1", Capacity: 2, Area: tableModel.AreaMainHall, Active: true},
		{ID: "tbl-2", Number: "2", Capacity: 4, Area: tableModel.AreaMainHall, Active: true},
		{ID: "tbl-t1", Number: "T1", Capacity: 4, Area: tableModel.AreaTerrace, Active: true},
		{ID: "tbl-t2", Number: "T2", Capacity: 6, Area: tableModel.AreaTerrace, Active: true},
		{ID: "tbl-p1", Number: "P1", Capacity: 8, Area: tableModel.AreaPrivateRoom, Active: true},
	}
}

func futureSchedule() string {
	return timezone.Now().Add(48 * time.Hour).Format(constant.DateFormat)
}

func TestReservationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCatalog := tableMocks.NewMockTable(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCatalog, mockPublisher, testConfig(), mockCache, mockOtel)

	runTx := func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
		return fn(nil)
	}

	mockPublisher.EXPECT().ReservationCreated(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name        string
		req         dto.CreateReservationRequest
		setupMock   func()
		wantErrKind failure.Kind
		wantTable   string
	}{
		{
			name: "books the smallest sufficient table",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   3,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-2").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-2", gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().CodeInUseTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTable: "2",
		},
		{
			name: "skips a busy table and takes the next candidate",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   4,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-2").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-2", gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-t1").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-t1", gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().CodeInUseTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTable: "T1",
		},
		{
			name: "honors the preferred area",
			req: dto.CreateReservationRequest{
				Phone:         "+5491155551234",
				PartySize:     2,
				ScheduledAt:   futureSchedule(),
				PreferredArea: tableModel.AreaTerrace,
			},
			setupMock: func() {
				terrace := []tableModel.Table{testTables()[2], testTables()[3]}

				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), tableModel.AreaTerrace).Return(terrace, nil)
				mockRepo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-t1").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-t1", gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().CodeInUseTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTable: "T1",
		},
		{
			name: "rejects an oversized party",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   20,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
			},
			wantErrKind: failure.KindInvalidPartySize,
		},
		{
			name: "rejects a past date",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   2,
				ScheduledAt: timezone.Now().Add(-time.Hour).Format(constant.DateFormat),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
			},
			wantErrKind: failure.KindPastDate,
		},
		{
			name: "rejects a malformed schedule",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   2,
				ScheduledAt: "mañana a las ocho",
			},
			setupMock:   func() {},
			wantErrKind: failure.KindBadRequest,
		},
		{
			name: "reports no availability when every candidate is busy",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   7,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx)
				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-p1").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-p1", gomock.Any()).Return(true, nil)
			},
			wantErrKind: failure.KindNoAvailability,
		},
		{
			name: "retries once after a write conflict and succeeds",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   3,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil).Times(2)

				gomock.InOrder(
					mockRepo.EXPECT().
						WithTx(gomock.Any(), gomock.Any()).
						Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeSerializationFailure)}),
					mockRepo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(runTx),
				)

				mockRepo.EXPECT().LockTableTx(gomock.Any(), gomock.Any(), "tbl-2").Return(nil)
				mockRepo.EXPECT().HasConflictTx(gomock.Any(), gomock.Any(), "tbl-2", gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().CodeInUseTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTable: "2",
		},
		{
			name: "a second write conflict becomes no availability",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   3,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil).Times(2)
				mockRepo.EXPECT().
					WithTx(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeDeadlockDetected)}).
					Times(2)
			},
			wantErrKind: failure.KindNoAvailability,
		},
		{
			name: "storage outage is surfaced, never swallowed",
			req: dto.CreateReservationRequest{
				Phone:       "+5491155551234",
				PartySize:   3,
				ScheduledAt: futureSchedule(),
			},
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().
					WithTx(gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			wantErrKind: failure.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantErrKind), "got kind %q", failure.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTable, res.TableNumber)
			assert.Equal(t, "confirmada", res.Status)
			assert.Equal(t, tt.req.PartySize, res.PartySize)
			assert.NotEmpty(t, res.ReservationID)
			assert.Len(t, res.ConfirmationCode, 6)

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCatalog := tableMocks.NewMockTable(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCatalog, mockPublisher, testConfig(), mockCache, mockOtel)

	mockPublisher.EXPECT().ReservationCancelled(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	owned := model.Reservation{
		ID:               "res-1",
		Phone:            "+5491155551234",
		TableID:          "tbl-2",
		PartySize:        4,
		ScheduledAt:      timezone.Now().Add(48 * time.Hour),
		Status:           model.StatusConfirmed,
		ConfirmationCode: "ABC234",
	}

	tests := []struct {
		name        string
		id          string
		req         dto.CancelReservationRequest
		setupMock   func()
		wantErrKind failure.Kind
		wantSuccess bool
	}{
		{
			name: "cancels an owned confirmed reservation",
			id:   "res-1",
			req:  dto.CancelReservationRequest{Phone: "+5491155551234"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(owned, nil)
				mockRepo.EXPECT().MarkCancelled(gomock.Any(), "res-1", "+5491155551234").Return(true, nil)
			},
			wantSuccess: true,
		},
		{
			name: "unknown reservation yields the generic answer",
			id:   "res-404",
			req:  dto.CancelReservationRequest{Phone: "+5491155551234"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
			},
			wantSuccess: false,
		},
		{
			name: "already cancelled yields the generic answer",
			id:   "res-1",
			req:  dto.CancelReservationRequest{Phone: "+5491155551234"},
			setupMock: func() {
				cancelled := owned
				cancelled.Status = model.StatusCancelled

				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantSuccess: false,
		},
		{
			name: "losing the cancellation race yields the generic answer",
			id:   "res-1",
			req:  dto.CancelReservationRequest{Phone: "+5491155551234"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(owned, nil)
				mockRepo.EXPECT().MarkCancelled(gomock.Any(), "res-1", "+5491155551234").Return(false, nil)
			},
			wantSuccess: false,
		},
		{
			name: "storage error is surfaced",
			id:   "res-1",
			req:  dto.CancelReservationRequest{Phone: "+5491155551234"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, errors.New("connection refused"))
			},
			wantErrKind: failure.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Cancel(context.Background(), tt.id, tt.req)

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantErrKind))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)

			if tt.wantSuccess {
				assert.Equal(t, "res-1", res.ReservationID)
				assert.Equal(t, "ABC234", res.ConfirmationCode)
				assert.Empty(t, res.Error)
			} else {
				assert.Equal(t, "no se encontraron reservas", res.Error)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestReservationService_CheckAvailability(t *testing.T) {
	var (
		mockRepo    *reservationMocks.MockReservation
		mockCatalog *tableMocks.MockTable
	)

	tomorrow := timezone.Now().AddDate(0, 0, 1).Format(constant.DateOnlyFormat)

	// 12:00 through 22:00 inclusive.
	const slotsPerDay = 11

	tests := []struct {
		name          string
		partySize     int
		date          string
		setupMock     func()
		wantAvailable bool
		wantSlotCount int
		wantTotal     int
		wantError     string
	}{
		{
			name:      "every slot free",
			partySize: 4,
			date:      tomorrow,
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, nil).
					AnyTimes()
			},
			wantAvailable: true,
			wantSlotCount: slotsPerDay,
			wantTotal:     slotsPerDay,
		},
		{
			name:      "fully booked day",
			partySize: 4,
			date:      tomorrow,
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
				mockCatalog.EXPECT().ActiveTables(gomock.Any(), "").Return(testTables(), nil)
				mockRepo.EXPECT().
					HasConflict(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(true, nil).
					AnyTimes()
			},
			wantAvailable: false,
			wantSlotCount: 0,
			wantTotal:     slotsPerDay,
		},
		{
			name:      "invalid party size reported in the response",
			partySize: 50,
			date:      tomorrow,
			setupMock: func() {
				mockCatalog.EXPECT().MaxPartySize(gomock.Any()).Return(8, nil)
			},
			wantAvailable: false,
			wantError:     "el tamaño del grupo debe estar entre 1 y 8 personas",
		},
		{
			name:          "invalid date format reported in the response",
			partySize:     4,
			date:          "10/05/2026",
			setupMock:     func() {},
			wantAvailable: false,
			wantError:     "formato de fecha inválido, use AAAA-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo = reservationMocks.NewMockReservation(ctrl)
			mockCatalog = tableMocks.NewMockTable(ctrl)
			mockPublisher := eventMocks.NewMockPublisher(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			mockOtel := mocks.NewOtel()

			svc := service.New(mockRepo, mockCatalog, mockPublisher, testConfig(), mockCache, mockOtel)

			tt.setupMock()

			res, err := svc.CheckAvailability(context.Background(), tt.partySize, tt.date)

			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, res.Available)
			assert.Equal(t, tt.partySize, res.PartySize)
			assert.Equal(t, tt.date, res.Date)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, res.Error)

				return
			}

			assert.Len(t, res.AvailableSlots, tt.wantSlotCount)
			assert.Equal(t, tt.wantTotal, res.TotalSlots)

			if tt.wantSlotCount > 0 {
				assert.Equal(t, "12:00", res.AvailableSlots[0])
				assert.Equal(t, "22:00", res.AvailableSlots[len(res.AvailableSlots)-1])
			}
		})
	}
}

func TestReservationService_ListForCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockCatalog := tableMocks.NewMockTable(ctrl)
	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockCatalog, mockPublisher, testConfig(), mockCache, mockOtel)

	stored := []model.CustomerReservation{
		{
			Reservation: model.Reservation{
				ID:               "res-1",
				Phone:            "+5491155551234",
				TableID:          "tbl-2",
				PartySize:        4,
				ScheduledAt:      timezone.Now().Add(24 * time.Hour),
				Status:           model.StatusConfirmed,
				ConfirmationCode: "ABC234",
			},
			TableNumber: "2",
			TableArea:   tableModel.AreaMainHall,
		},
		{
			Reservation: model.Reservation{
				ID:               "res-2",
				Phone:            "+5491155551234",
				TableID:          "tbl-t1",
				PartySize:        2,
				ScheduledAt:      timezone.Now().Add(72 * time.Hour),
				Status:           model.StatusCancelled,
				ConfirmationCode: "XYZ789",
			},
			TableNumber: "T1",
			TableArea:   tableModel.AreaTerrace,
		},
	}

	tests := []struct {
		name        string
		phone       string
		setupMock   func()
		wantErrKind failure.Kind
		wantTotal   int
	}{
		{
			name:  "cache miss reads from storage",
			phone: "+5491155551234",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "reservation:phone:+5491155551234", gomock.Any()).
					Return(errors.New("cache miss"))
				mockRepo.EXPECT().FindByPhone(gomock.Any(), "+5491155551234").Return(stored, nil)
				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantTotal: 2,
		},
		{
			name:  "cache hit skips storage",
			phone: "+5491155551234",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "reservation:phone:+5491155551234", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, ok := value.(*dto.GetReservationsResponse)
						require.True(t, ok)
						res.FromModels(stored)

						return nil
					})
			},
			wantTotal: 2,
		},
		{
			name:  "customer without reservations gets an empty list",
			phone: "+5491100000000",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				mockRepo.EXPECT().FindByPhone(gomock.Any(), "+5491100000000").Return(nil, nil)
				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantTotal: 0,
		},
		{
			name:  "storage error is surfaced",
			phone: "+5491155551234",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				mockRepo.EXPECT().
					FindByPhone(gomock.Any(), "+5491155551234").
					Return(nil, errors.New("connection refused"))
			},
			wantErrKind: failure.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.ListForCustomer(context.Background(), tt.phone)

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantErrKind))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Len(t, res.Reservations, tt.wantTotal)

			if tt.wantTotal > 0 {
				assert.Equal(t, "res-1", res.Reservations[0].ReservationID)
				assert.Equal(t, "confirmada", res.Reservations[0].Status)
				assert.Equal(t, "cancelada", res.Reservations[1].Status)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}
