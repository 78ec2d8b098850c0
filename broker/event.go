package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

type EventType string

const (
	NeedCreated   EventType = "need.created"
	NeedCompleted EventType = "need.completed"
	NeedDeleted   EventType = "need.deleted"
)

// Event describes one change in a need's lifecycle.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	NeedID     int64     `json:"need_id"`
	Author     string    `json:"author"`
	Category   string    `json:"category,omitempty"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(typ EventType, needID int64, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		NeedID:     needID,
		OccurredAt: occurredAt.UTC(),
	}
}

func DecodeEvent(b []byte) (Event, error) {
	var e Event
	if err := jsoniter.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event. err: %w", err)
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. It is used when no Kafka brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

// KafkaPublisher sends events to a single topic keyed by event id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := jsoniter.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event. err: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.ID),
		Value: sarama.ByteEncoder(bytes),
	})
	if err != nil {
		return fmt.Errorf("failed to send event. err: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
