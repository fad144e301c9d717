// Package events integrates the pipeline with Kafka: completed cache writes
// are announced on an updates topic, and a refresh-request topic lets other
// services pre-warm cache keys. Both sides are optional; the service runs
// fully without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"roadwatch/types"
)

// UpdateEvent is the message published after a successful cache write.
type UpdateEvent struct {
	Key         string           `json:"key"`
	Target      types.TargetKind `json:"target"`
	Location    string           `json:"location"`
	RiskLevel   types.RiskLevel  `json:"risk_level"`
	RiskScore   float64          `json:"risk_score"`
	LastUpdated time.Time        `json:"last_updated"`
}

// Producer publishes update events.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a synchronous producer to the given brokers.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// PublishUpdated announces a refreshed payload. Implements
// orchestrator.UpdatePublisher.
func (p *Producer) PublishUpdated(_ context.Context, key string, payload types.IntelPayload) error {
	event := UpdateEvent{
		Key:         key,
		Target:      payload.Target,
		Location:    payload.Location,
		LastUpdated: payload.LastUpdated,
	}
	if payload.RiskScore != nil {
		event.RiskLevel = payload.RiskScore.Level
		event.RiskScore = payload.RiskScore.Score
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode update event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("publish update event: %w", err)
	}
	return nil
}

// Close shuts down the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
