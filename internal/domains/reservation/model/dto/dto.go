package dto

import (
	"time"

	"mesa/internal/domains/reservation/model"
	tableModel "mesa/internal/domains/table/model"
	"mesa/shared/constant"
	"mesa/shared/timezone"
)

// Customer-facing status labels. The stored status is the source of truth;
// these are presentation only.
var statusLabels = map[string]string{
	model.StatusConfirmed: "confirmada",
	model.StatusCancelled: "cancelada",
}

func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}

	return status
}

// CreateReservationRequest is the structured request handed over by the
// orchestrator after intent extraction. This core never parses free text.
type CreateReservationRequest struct {
	Phone         string `json:"phone"          validate:"required,min=8,max=20"`
	PartySize     int    `json:"party_size"     validate:"required,gte=1"`
	ScheduledAt   string `json:"scheduled_at"   validate:"required"`
	PreferredArea string `json:"preferred_area" validate:"omitempty,oneof=salon_principal terraza salon_privado barra"`
}

// ParseScheduledAt interprets the requested date-time in the restaurant's
// timezone.
func (c *CreateReservationRequest) ParseScheduledAt() (time.Time, error) {
	return timezone.Parse(constant.DateFormat, c.ScheduledAt)
}

type ReservationResponse struct {
	ReservationID    string `json:"reservation_id"`
	TableNumber      string `json:"table_number"`
	Area             string `json:"area"`
	PartySize        int    `json:"party_size"`
	ScheduledAt      string `json:"scheduled_at"`
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (r *ReservationResponse) FromModel(reservation model.Reservation, table tableModel.Table) {
	r.ReservationID = reservation.ID
	r.TableNumber = table.Number
	r.Area = table.Area
	r.PartySize = reservation.PartySize
	r.ScheduledAt = timezone.Format(reservation.ScheduledAt, constant.DateFormat)
	r.Status = StatusLabel(reservation.Status)
	r.ConfirmationCode = reservation.ConfirmationCode
}

type CancelReservationRequest struct {
	Phone string `json:"phone" validate:"required,min=8,max=20"`
}

// CancellationResponse reports the outcome of a cancellation. A missing,
// foreign or already-cancelled reservation yields the same generic answer so
// the existence of other customers' reservations is never revealed.
type CancellationResponse struct {
	Success          bool   `json:"success"`
	ReservationID    string `json:"reservation_id,omitempty"`
	ConfirmationCode string `json:"confirmation_code,omitempty"`
	Error            string `json:"error,omitempty"`
}

// AvailabilityResponse reports, per configured service slot, whether at
// least one table could seat the party on the requested date.
type AvailabilityResponse struct {
	Available      bool     `json:"available"`
	PartySize      int      `json:"party_size"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
	TotalSlots     int      `json:"total_slots"`
	Error          string   `json:"error,omitempty"`
}

type ReservationSummary struct {
	ReservationID    string `json:"reservation_id"`
	TableNumber      string `json:"table_number"`
	Area             string `json:"area"`
	PartySize        int    `json:"party_size"`
	ScheduledAt      string `json:"scheduled_at"`
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (r *ReservationSummary) FromModel(reservation model.CustomerReservation) {
	r.ReservationID = reservation.ID
	r.TableNumber = reservation.TableNumber
	r.Area = reservation.TableArea
	r.PartySize = reservation.PartySize
	r.ScheduledAt = timezone.Format(reservation.ScheduledAt, constant.DateFormat)
	r.Status = StatusLabel(reservation.Status)
	r.ConfirmationCode = reservation.ConfirmationCode
}

type GetReservationsResponse struct {
	Reservations []ReservationSummary `json:"reservations"`
	Total        int                  `json:"total"`
}

func (r *GetReservationsResponse) FromModels(models []model.CustomerReservation) {
	r.Total = len(models)

	r.Reservations = make([]ReservationSummary, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
