package kafka

import (
	"context"
	"log/slog"
	"slices"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/samber/lo"

	"github.com/couchcryptid/quake-report/internal/config"
	"github.com/couchcryptid/quake-report/internal/domain"
)

// Writer produces presented quakes to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured row topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes one message per quake in a single WriteMessages call.
// Messages are keyed by detail URL so repeated polls of the same event land
// on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, quakes []domain.PresentedQuake) error {
	if len(quakes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(quakes))
	for i := range quakes {
		msg, err := serializeToMessage(quakes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("rows published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

// Close flushes pending messages and releases the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(q domain.PresentedQuake) (kafkago.Message, error) {
	out, err := domain.SerializePresentedQuake(q)
	if err != nil {
		return kafkago.Message{}, err
	}

	keys := lo.Keys(out.Headers)
	slices.Sort(keys)
	headers := lo.Map(keys, func(k string, _ int) kafkago.Header {
		return kafkago.Header{Key: k, Value: []byte(out.Headers[k])}
	})

	return kafkago.Message{
		Key:     out.Key,
		Value:   out.Value,
		Headers: headers,
	}, nil
}
