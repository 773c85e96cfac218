package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"specimenpro/internal/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer follows the catalog topic.
type Consumer struct {
	reader messageReader
	logger *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start hands every decodable notification to handler until ctx is done.
// Malformed messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(Notification)) error {
	c.logger.Info("KAFKA", "Catalog consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read catalog message: %w", err)
		}

		var n Notification
		if err := json.Unmarshal(msg.Value, &n); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Skipping malformed message at offset %d: %v", msg.Offset, err))
			continue
		}
		handler(n)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
