package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"tutorbook/config"
	"tutorbook/infras/kafka"
	"tutorbook/infras/otel"
	"tutorbook/shared/constant"
	"tutorbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Type string

const (
	ReservationCreated         Type = "reservation.created"
	ReservationConfirmed       Type = "reservation.confirmed"
	ReservationCancelled       Type = "reservation.cancelled"
	ReservationRefundRequested Type = "reservation.refund_requested"
	ReservationRefunded        Type = "reservation.refunded"
	ReservationRescheduled     Type = "reservation.rescheduled"
	ReservationAttended        Type = "reservation.attended"
	ReservationNoShow          Type = "reservation.no_show"

	PaymentPaid           Type = "payment.paid"
	PaymentFailed         Type = "payment.failed"
	PaymentRefunded       Type = "payment.refunded"
	PaymentReviewRequired Type = "payment.review_required"

	SlotConfirmed Type = "slot.confirmed"
	SlotCompleted Type = "slot.completed"
	SlotCancelled Type = "slot.cancelled"
)

// Event is a committed state change. AggregateID is used as the message key so
// changes to one reservation, payment or slot keep their order on a partition.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data,omitempty"`
}

func New(eventType Type, aggregateID string, data any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  timezone.Now(),
		Data:        data,
	}
}

// Publisher announces events after their transaction committed. Delivery is best effort:
// a failed publish is logged and never undoes the state change.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

type publisherImpl struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		topic:  cfg.Kafka.Topic,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, len(events))
	for i, evt := range events {
		messages[i] = kafka.Message{
			Key:   evt.AggregateID,
			Value: evt,
		}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("count", len(events)).Str("topic", p.topic).Msg("failed to publish booking events")

		return
	}

	log.Debug().Int("count", len(events)).Str("topic", p.topic).Msg("published booking events")
}

// Recorder collects events while a unit of work runs so they can be published once it commits.
type Recorder struct {
	events []Event
}

func (r *Recorder) Record(eventType Type, aggregateID string, data any) {
	r.events = append(r.events, New(eventType, aggregateID, data))
}

// Reset drops everything recorded, used when a transaction is retried or rolled back.
func (r *Recorder) Reset() {
	r.events = nil
}

func (r *Recorder) Events() []Event {
	return r.events
}

// Subscribe hands every booking event read from the topic to handle until ctx is done.
// Messages that are not events are skipped.
func Subscribe(ctx context.Context, client kafka.Client, cfg *config.Config, handle func(Event)) {
	client.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic, func(message kafkaGo.Message) {
		evt, err := kafka.DecodeKafkaMessage[Event](message)
		if err != nil || evt.Type == "" {
			log.Warn().Err(err).Str("key", string(message.Key)).Int64("offset", message.Offset).Msg("skipping message that is not a booking event")

			return
		}

		handle(evt)
	})
}
