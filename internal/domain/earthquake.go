package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Earthquake is one feed feature reduced to the fields the list needs.
// Values are never mutated after ParseFeed builds them.
type Earthquake struct {
	Magnitude  float64 `json:"magnitude"`
	Location   string  `json:"location"`
	TimeMillis int64   `json:"time_millis"`
	DetailURL  string  `json:"detail_url"`
}

// Time returns the event time as a UTC time.Time.
func (e Earthquake) Time() time.Time {
	return time.UnixMilli(e.TimeMillis).UTC()
}

// Row is the display model for a single list entry.
type Row struct {
	Magnitude       string          `json:"magnitude"`
	Bucket          MagnitudeBucket `json:"bucket"`
	LocationOffset  string          `json:"location_offset"`
	PrimaryLocation string          `json:"primary_location"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	DetailURL       string          `json:"detail_url"`
}

// PresentedQuake pairs a record with its row, stamped when presented.
type PresentedQuake struct {
	Earthquake  Earthquake `json:"earthquake"`
	Row         Row        `json:"row"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// OutputEvent is the serialized form destined for a sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializePresentedQuake encodes a presented quake keyed by its detail URL.
func SerializePresentedQuake(q PresentedQuake) (OutputEvent, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize presented quake: %w", err)
	}
	return OutputEvent{
		Key:   []byte(q.Earthquake.DetailURL),
		Value: data,
		Headers: map[string]string{
			"magnitude_bucket": q.Row.Bucket.String(),
			"processed_at":     q.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
