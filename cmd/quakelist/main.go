// Command quakelist fetches recent earthquakes from the USGS feed (or reads a
// saved GeoJSON file) and prints them as a colored table.
//
// Usage:
//
//	go run ./cmd/quakelist -min-mag 5 -limit 20
//	go run ./cmd/quakelist -file internal/domain/testdata/feed_two.json -tz UTC
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-report/internal/adapter/usgs"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
	"github.com/couchcryptid/quake-report/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := usgs.DefaultQuery()

	fs := flag.NewFlagSet("quakelist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("base-url", usgs.DefaultBaseURL, "USGS FDSN event query endpoint")
	minMag := fs.Float64("min-mag", defaults.MinMagnitude, "minimum magnitude")
	limit := fs.Int("limit", defaults.Limit, "maximum number of events")
	orderBy := fs.String("order-by", defaults.OrderBy, "time, time-asc, magnitude or magnitude-asc")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	file := fs.String("file", "", "read a saved GeoJSON feed instead of fetching")
	tz := fs.String("tz", "Local", "IANA time zone for dates and times")
	separator := fs.String("separator", domain.LocationSeparator, "location split token")
	fallback := fs.String("fallback", domain.DefaultLocationFallback, "offset text when no separator is found")
	palettePath := fs.String("palette", "", "YAML palette overrides")
	width := fs.Int("width", 40, "truncate locations to this many columns (0 disables)")
	noColor := fs.Bool("no-color", false, "disable colored magnitudes")
	showURL := fs.Bool("urls", false, "include detail URLs")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -tz %q: %v\n", *tz, err)
		return 2
	}
	palette, err := render.LoadPalette(*palettePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var payload string
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		payload = string(data)
	} else {
		q := usgs.Query{EventType: defaults.EventType, OrderBy: *orderBy, MinMagnitude: *minMag, Limit: *limit}
		feedURL, err := q.URL(*baseURL)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -base-url: %v\n", err)
			return 2
		}
		client := usgs.NewClient(*timeout, observability.NewUnregisteredMetrics(), logger)
		payload = client.Fetch(context.Background(), feedURL)
	}

	presenter := domain.Presenter{Separator: *separator, Fallback: *fallback, Location: loc}
	quakes := domain.MapFeed(payload, logger)
	rows := make([]domain.Row, len(quakes))
	for i, eq := range quakes {
		rows[i] = presenter.Present(eq)
	}

	if len(rows) == 0 {
		fmt.Fprintln(stdout, "No earthquakes found.")
		return 0
	}
	render.Table(stdout, rows, palette, render.TableOptions{
		PlaceWidth: *width,
		NoColor:    *noColor,
		ShowURL:    *showURL,
	})
	return 0
}
