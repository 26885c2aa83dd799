package service

import (
	"context"
	"fmt"

	"slotwise/pkg/kafka"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	eventSource = "scheduling"
)

// EventPublisher announces booking lifecycle transitions to interested
// consumers (notifications, analytics). Publishing is best-effort; the
// booking itself is already committed when an event goes out.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) EventPublisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	// Key on the slot so all events for one slot land on one partition.
	key := fmt.Sprintf("%s_%s_%s", booking.AgentID, booking.Date, booking.StartTime)

	msg, err := kafka.NewMessage(key, eventType, eventSource, booking)
	if err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}
	return p.producer.Publish(ctx, msg)
}

// nopPublisher is used when no Kafka brokers are configured.
type nopPublisher struct{}

func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, *model.Booking) error {
	return nil
}
