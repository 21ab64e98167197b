// Package kafka publishes committed status changes for downstream consumers
// (notifications, pharmacy portals).
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"pharmadelivery/internal/core/domain/model/history"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// StatusChangedMessage is the value of one record. The record key is the
// entity id so the changes of one entity stay ordered within a partition.
type StatusChangedMessage struct {
	EventID   string    `json:"eventId"`
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entityId"`
	StatusID  int       `json:"statusId"`
	ProfileID *string   `json:"profileId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusPublisher implements ports.StatusEventPublisher.
type StatusPublisher struct {
	w     writer
	topic string
}

// NewStatusPublisher creates a publisher writing to topic on brokers. Records
// are hash-partitioned by entity id.
func NewStatusPublisher(brokers []string, topic string) *StatusPublisher {
	return newStatusPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}, topic)
}

func newStatusPublisherWithWriter(w writer, topic string) *StatusPublisher {
	return &StatusPublisher{w: w, topic: topic}
}

// Publish writes one record per event in a single batch. An empty batch is a
// no-op.
//
// Example:
//
//	if err := publisher.Publish(ctx, events); err != nil {
//		logger.WarnContext(ctx, "status events not published", "error", err)
//	}
func (p *StatusPublisher) Publish(ctx context.Context, events []*history.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(toMessage(ev))
		if err != nil {
			return errors.Wrap(err, "kafka encode")
		}
		msgs = append(msgs, kafka.Message{
			Topic: p.topic,
			Key:   []byte(ev.EntityID()),
			Value: value,
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

// Close flushes pending writes.
func (p *StatusPublisher) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func toMessage(ev *history.Event) StatusChangedMessage {
	var profileID *string
	if id := ev.ProfileID(); id != nil {
		s := id.String()
		profileID = &s
	}
	return StatusChangedMessage{
		EventID:   ev.ID().String(),
		Kind:      ev.Kind().String(),
		EntityID:  ev.EntityID(),
		StatusID:  int(ev.StatusID()),
		ProfileID: profileID,
		CreatedAt: ev.CreatedAt(),
	}
}
