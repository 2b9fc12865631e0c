// Command genfixture writes a deterministic USGS-style GeoJSON feed, and the
// rows the presenter derives from it, for use as test fixtures.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -feed-out /tmp/feed_sample.json \
//	  -rows-out /tmp/rows_sample.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// fixtureNow anchors every generated timestamp.
var fixtureNow = time.Date(2016, time.January, 30, 6, 0, 0, 0, time.UTC)

// places alternates between "offset of primary" and bare region names so
// both branches of the location split are exercised.
var places = []string{
	"88km N of Yelizovo, Russia",
	"Pacific-Antarctic Ridge",
	"Off the east coast of Honshu, Japan",
	"12km SSW of Anza, CA",
	"South Sandwich Islands region",
	"3km W of Of, Turkey",
	"Near the coast of Central Chile",
	"140km NNE of Tobelo, Indonesia",
}

type feed struct {
	Type     string    `json:"type"`
	Metadata metadata  `json:"metadata"`
	Features []feature `json:"features"`
}

type metadata struct {
	Generated int64  `json:"generated"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
}

type feature struct {
	Type       string     `json:"type"`
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
}

type properties struct {
	Mag   float64 `json:"mag"`
	Place string  `json:"place"`
	Time  int64   `json:"time"`
	URL   string  `json:"url"`
	Type  string  `json:"type"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedOut := flag.String("feed-out", "", "output path for the GeoJSON feed fixture")
	rowsOut := flag.String("rows-out", "", "output path for the presented rows fixture")
	count := flag.Int("count", 24, "number of features to generate")
	flag.Parse()

	if *feedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -feed-out")
	}
	return generate(*feedOut, *rowsOut, *count)
}

// generate writes the feed fixture and, when rowsOut is set, the rows the
// presenter derives from it.
func generate(feedOut, rowsOut string, count int) error {
	if count <= 0 {
		return fmt.Errorf("-count must be positive")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureNow))
	defer domain.SetClock(nil)

	f := buildFeed(count)
	if err := writeJSON(feedOut, f); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d features)", feedOut, len(f.Features))

	if rowsOut == "" {
		return nil
	}

	// Round-trip through the real mapper so the rows match pipeline output.
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	quakes, err := domain.ParseFeed(raw)
	if err != nil {
		return fmt.Errorf("parse generated feed: %w", err)
	}
	presenter := domain.Presenter{
		Separator: domain.LocationSeparator,
		Fallback:  domain.DefaultLocationFallback,
		Location:  time.UTC,
	}
	rows := lo.Map(presenter.PresentAll(quakes), func(q domain.PresentedQuake, _ int) domain.Row {
		return q.Row
	})
	if err := writeJSON(rowsOut, rows); err != nil {
		return fmt.Errorf("writing rows fixture: %w", err)
	}
	log.Printf("wrote rows fixture: %s", rowsOut)

	printStats(rows)
	return nil
}

// buildFeed walks magnitudes from 0.5 upward in 0.45 steps so every bucket
// is hit, newest event first.
func buildFeed(n int) feed {
	features := make([]feature, n)
	for i := range features {
		id := fmt.Sprintf("fx%08d", i+1)
		features[i] = feature{
			Type: "Feature",
			ID:   id,
			Properties: properties{
				Mag:   0.5 + 0.45*float64(i),
				Place: places[i%len(places)],
				Time:  fixtureNow.Add(-time.Duration(i) * 97 * time.Minute).UnixMilli(),
				URL:   "https://earthquake.usgs.gov/earthquakes/eventpage/" + id,
				Type:  "earthquake",
			},
		}
	}
	return feed{
		Type: "FeatureCollection",
		Metadata: metadata{
			Generated: fixtureNow.UnixMilli(),
			Title:     "Generated Earthquakes Fixture",
			Count:     n,
		},
		Features: features,
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(rows []domain.Row) {
	counts := lo.CountValuesBy(rows, func(r domain.Row) domain.MagnitudeBucket { return r.Bucket })
	fallbacks := lo.CountBy(rows, func(r domain.Row) bool { return r.LocationOffset == domain.DefaultLocationFallback })

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(rows))
	for _, b := range domain.AllBuckets() {
		fmt.Printf("  %-16s %d\n", b, counts[b])
	}
	fmt.Printf("Fallback offsets: %d\n", fallbacks)
}
