package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-report/internal/config"
	"github.com/couchcryptid/quake-report/internal/domain"
)

func testQuake(now time.Time) domain.PresentedQuake {
	eq := domain.Earthquake{
		Magnitude:  7.2,
		Location:   "88km N of Yelizovo, Russia",
		TimeMillis: 1454124312220,
		DetailURL:  "https://earthquake.usgs.gov/earthquakes/eventpage/us20004vvx",
	}
	p := domain.Presenter{Separator: " of ", Fallback: "Near the", Location: time.UTC}
	return domain.PresentedQuake{Earthquake: eq, Row: p.Present(eq), ProcessedAt: now}
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	q := testQuake(now)

	msg, err := serializeToMessage(q)
	require.NoError(t, err)

	assert.Equal(t, []byte(q.Earthquake.DetailURL), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "magnitude_bucket", msg.Headers[0].Key)
	assert.Equal(t, []byte("magnitude7"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.PresentedQuake
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, q.Row, decoded.Row)
	assert.Equal(t, "Yelizovo, Russia", decoded.Row.PrimaryLocation)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "earthquake-rows"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "earthquake-rows", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
	assert.Equal(t, "localhost:9092", w.writer.Addr.String())
}

func TestLoadBatch_Empty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "earthquake-rows"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
