package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-collector/internal/config"
	"github.com/couchcryptid/weather-collector/internal/domain"
)

// Publisher produces newly appended weather records to a Kafka topic so
// downstream consumers can react to fresh observations without polling the
// dataset objects. It implements pipeline.RecordPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured record topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and produces one record, keyed by its composite key so
// replays of the same observation land in the same partition.
func (p *Publisher) Publish(ctx context.Context, rec domain.WeatherRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a WeatherRecord into a Kafka message using
// the dataset column names as JSON keys.
func serializeToMessage(rec domain.WeatherRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec.FieldMap())
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize weather record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(rec.Region)},
			{Key: "collected_at", Value: []byte(rec.Timestamp)},
		},
	}, nil
}
