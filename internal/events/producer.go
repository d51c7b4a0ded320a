// Package events publishes ride lifecycle events to Kafka for
// downstream consumers (analytics, the status mirror).
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/observability"
)

const (
	TypeRideRequested     = "ride.requested"
	TypeRideStatusChanged = "ride.status_changed"
)

type RideEvent struct {
	Type       string    `json:"type"`
	RideID     int64     `json:"ride_id"`
	UserID     int64     `json:"user_id"`
	RiderID    int64     `json:"rider_id"`
	Status     string    `json:"status"`
	FareAmount float64   `json:"fare_amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

func RideRequested(r models.Ride) RideEvent {
	return rideEvent(TypeRideRequested, r)
}

func RideStatusChanged(r models.Ride) RideEvent {
	return rideEvent(TypeRideStatusChanged, r)
}

func rideEvent(typ string, r models.Ride) RideEvent {
	return RideEvent{
		Type:       typ,
		RideID:     r.ID,
		UserID:     r.UserID,
		RiderID:    r.RiderID,
		Status:     string(r.Status),
		FareAmount: r.FareAmount,
		OccurredAt: time.Now().UTC(),
	}
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Producer{writer: w}
}

// PublishRideEvent writes the event keyed by ride id so per-ride
// ordering is preserved within a partition.
func (p *Producer) PublishRideEvent(ctx context.Context, ev RideEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := []byte(strconv.FormatInt(ev.RideID, 10))
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: b}); err != nil {
		return err
	}
	observability.EventsPublishedTotal.Inc()
	return nil
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
