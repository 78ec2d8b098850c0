package consumer

import (
	"context"

	"github.com/Shopify/sarama"
	"github.com/acikkaynak/needs-board-go/broker"
	"github.com/acikkaynak/needs-board-go/metrics"
	"go.uber.org/zap"
)

// Consumer reads need lifecycle events back from Kafka and writes them to the
// audit log.
type Consumer struct {
	Ready   chan bool
	group   sarama.ConsumerGroup
	topics  []string
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topic string, m *metrics.Metrics, log *zap.Logger) *Consumer {
	return &Consumer{
		Ready:   make(chan bool),
		group:   group,
		topics:  []string{topic},
		metrics: m,
		log:     log,
	}
}

// Start joins the consumer group and blocks until the first session is set up.
func (c *Consumer) Start(ctx context.Context) {
	ready := c.Ready
	go func() {
		for {
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				c.log.Panic("error from consumer", zap.Error(err))
			}
			// check if context was cancelled, signaling that the consumer should stop
			if ctx.Err() != nil {
				return
			}
			c.Ready = make(chan bool)
		}
	}()
	<-ready
	c.log.Info("sarama consumer up and running", zap.Strings("topics", c.topics))
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	close(c.Ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.Handle(message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// Handle records one message. Undecodable messages are logged and skipped so
// a bad payload never blocks the partition.
func (c *Consumer) Handle(message *sarama.ConsumerMessage) (broker.Event, bool) {
	e, err := broker.DecodeEvent(message.Value)
	if err != nil {
		c.metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		c.log.Warn("skipping undecodable need event",
			zap.String("topic", message.Topic),
			zap.Int32("partition", message.Partition),
			zap.Int64("offset", message.Offset),
			zap.Error(err),
		)
		return broker.Event{}, false
	}

	c.metrics.EventsConsumed.WithLabelValues(string(e.Type)).Inc()
	c.log.Info("need event",
		zap.String("event_id", e.ID),
		zap.String("type", string(e.Type)),
		zap.Int64("need_id", e.NeedID),
		zap.String("author", e.Author),
		zap.String("category", e.Category),
		zap.String("assigned_to", e.AssignedTo),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return e, true
}
