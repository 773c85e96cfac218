package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"specimenpro/internal/config"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeDocumentSaved  = "document.saved"
	TypeBatchGenerated = "batch.generated"
)

// Notification is the message value published on the catalog topic.
type Notification struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`

	// document.saved
	Path        string `json:"path,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Events      int    `json:"events,omitempty"`

	// batch.generated
	EventID string `json:"eventId,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Output  string `json:"output,omitempty"`
	Written int    `json:"written,omitempty"`
	Error   string `json:"error,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes catalog notifications. With a nil writer it only logs,
// which is how disabled and mock mode behave.
type Producer struct {
	writer messageWriter
	topic  string
	logger *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Nop()
	}
	p := &Producer{topic: cfg.Topic, logger: log}
	if !cfg.Enabled || cfg.MockMode {
		log.Info("KAFKA", fmt.Sprintf("Producer running without broker (enabled=%t mock=%t)", cfg.Enabled, cfg.MockMode))
		return p
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return p
}

// PublishDocumentSaved announces that doc was persisted at path.
func (p *Producer) PublishDocumentSaved(ctx context.Context, path string, doc *models.Document) error {
	return p.publish(ctx, path, Notification{
		Type:        TypeDocumentSaved,
		Path:        path,
		LastUpdated: doc.LastUpdated,
		Events:      len(doc.Events),
	})
}

// PublishBatchGenerated announces the outcome of a PNG or PDF batch. A
// failed batch is still published with its partial count.
func (p *Producer) PublishBatchGenerated(ctx context.Context, eventID, mode, output string, written int, batchErr error) error {
	n := Notification{
		Type:    TypeBatchGenerated,
		EventID: eventID,
		Mode:    mode,
		Output:  output,
		Written: written,
	}
	if batchErr != nil {
		n.Error = batchErr.Error()
	}
	return p.publish(ctx, eventID, n)
}

func (p *Producer) publish(ctx context.Context, key string, n Notification) error {
	n.Timestamp = utils.Timestamp(time.Now())
	msgBytes, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if p.writer == nil {
		p.logger.LogKafka("MOCK", p.topic, string(msgBytes))
		return nil
	}

	p.logger.LogKafka("PUBLISH", p.topic, n.Type)
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msgBytes,
	}); err != nil {
		p.logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s: %v", n.Type, err))
		return fmt.Errorf("publish %s: %w", n.Type, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
