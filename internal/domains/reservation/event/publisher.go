package event

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"mesa/config"
	"mesa/infras/kafka"
	"mesa/infras/otel"
	"mesa/shared/constant"
	"mesa/shared/timezone"
)

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is the envelope consumed by downstream systems (messaging
// dispatch, audit). It identifies the customer and the reservation, nothing
// more; consumers look up details themselves.
type ReservationEvent struct {
	Customer      string    `json:"customer"`
	ReservationID string    `json:"reservation_id"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher is the notification hook fired after a reservation transaction
// commits. Delivery is best effort and never fails the originating
// operation.
type Publisher interface {
	ReservationCreated(ctx context.Context, phone, reservationID string)
	ReservationCancelled(ctx context.Context, phone, reservationID string)
}

type kafkaPublisher struct {
	cfg   *config.Config
	kafka kafka.Client
	otel  otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, otel otel.Otel) Publisher {
	return &kafkaPublisher{
		cfg:   cfg,
		kafka: kafkaClient,
		otel:  otel,
	}
}

func (p *kafkaPublisher) ReservationCreated(ctx context.Context, phone, reservationID string) {
	p.publish(ctx, phone, reservationID, TypeReservationCreated)
}

func (p *kafkaPublisher) ReservationCancelled(ctx context.Context, phone, reservationID string) {
	p.publish(ctx, phone, reservationID, TypeReservationCancelled)
}

func (p *kafkaPublisher) publish(ctx context.Context, phone, reservationID, eventType string) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".publish")
	defer scope.End()

	scope.SetAttribute("event.type", eventType)

	message := kafka.Message{
		Key: phone,
		Value: ReservationEvent{
			Customer:      phone,
			ReservationID: reservationID,
			EventType:     eventType,
			OccurredAt:    timezone.Now(),
		},
	}

	if err := p.kafka.SendMessages(ctx, p.cfg.Kafka.Topics.ReservationEvents, message); err != nil {
		scope.TraceError(err)
		log.Error().
			Err(err).
			Str("eventType", eventType).
			Str("reservationID", reservationID).
			Msg("failed to publish reservation event")
	}
}
