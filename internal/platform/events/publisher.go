// Package events publishes dataset lifecycle events to a broker so
// downstream consumers can react to fresh data loads. Publishing is optional:
// with no brokers configured every call is a no-op.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"lynx/internal/platform/config"
)

// Event captures a dataset lifecycle notification.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Counts     map[string]int `json:"counts,omitempty"`
}

const (
	TypeIdentityGenerated  = "idv.dataset.generated"
	TypeInsuranceGenerated = "insurance.dataset.generated"
)

// Publisher emits events to a single topic.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// New connects to the broker and ensures the topic exists. Topic creation is
// idempotent: an already-exists response is not an error. Returns (nil, nil)
// when no brokers are configured.
func New(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create broker client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, cfg.Topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure topic %s: %w", cfg.Topic, err)
	}
	for _, res := range resp {
		// An already existing topic is fine; anything else is not.
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("ensure topic %s: %w", cfg.Topic, res.Err)
		}
	}

	logger.Info("event publisher ready", "topic", cfg.Topic, "brokers", cfg.Brokers)
	return &Publisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish emits a single event synchronously. A nil Publisher drops the
// event, which keeps call sites free of enabled-checks.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Type),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", event.Type, err)
	}

	p.logger.Debug("published event", "type", event.Type)
	return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() {
	if p != nil {
		p.client.Close()
	}
}
