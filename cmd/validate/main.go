// Command validate checks a saved USGS GeoJSON feed for structural problems
// and verifies that presenting it yields consistent rows. When a rows
// fixture is given it must match the presenter output exactly.
//
// Usage:
//
//	go run ./cmd/genfixture -feed-out /tmp/feed_sample.json -rows-out /tmp/rows_sample.json
//	go run ./cmd/validate -feed /tmp/feed_sample.json -rows /tmp/rows_sample.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to a GeoJSON feed")
	rowsPath := flag.String("rows", "", "optional path to the expected rows JSON")
	flag.Parse()

	if *feedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*feedPath, *rowsPath, os.Stdout))
}

func run(feedPath, rowsPath string, out io.Writer) int {
	payload, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read feed: %v\n", err)
		return 1
	}

	presenter := domain.Presenter{
		Separator: domain.LocationSeparator,
		Fallback:  domain.DefaultLocationFallback,
		Location:  time.UTC,
	}

	fmt.Fprintln(out, "=== Earthquake Feed Validation ===")
	fmt.Fprintln(out)

	quakes, structure := validateStructure(payload)
	rows := make([]domain.Row, len(quakes))
	for i, eq := range quakes {
		rows[i] = presenter.Present(eq)
	}

	phases := []*phase{
		structure,
		validateRows(quakes, rows, presenter),
	}
	if rowsPath != "" {
		phases = append(phases, validateFixture(rowsPath, rows))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-28s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nRecords: %d\n", len(quakes))
	counts := lo.CountValuesBy(rows, func(r domain.Row) domain.MagnitudeBucket { return r.Bucket })
	for _, b := range domain.AllBuckets() {
		if counts[b] > 0 {
			fmt.Fprintf(out, "  %-16s %d\n", b, counts[b])
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func validateStructure(payload []byte) ([]domain.Earthquake, *phase) {
	p := &phase{name: "Feed structure"}
	quakes, err := domain.ParseFeed(payload)
	if err != nil {
		p.errorf("%v (kept %d records)", err, len(quakes))
	}
	if len(payload) > 0 && len(quakes) == 0 && err == nil {
		p.errorf("feed has no features")
	}
	return quakes, p
}

func validateRows(quakes []domain.Earthquake, rows []domain.Row, presenter domain.Presenter) *phase {
	p := &phase{name: "Row presentation"}
	for i, r := range rows {
		eq := quakes[i]

		if m, err := strconv.ParseFloat(r.Magnitude, 64); err != nil {
			p.errorf("row %d: magnitude %q is not numeric", i, r.Magnitude)
		} else if diff := m - eq.Magnitude; diff > 0.05+1e-9 || diff < -0.05-1e-9 {
			p.errorf("row %d: magnitude %q drifted from %g", i, r.Magnitude, eq.Magnitude)
		}

		if r.Bucket != domain.MagnitudeColorBucket(eq.Magnitude) {
			p.errorf("row %d: bucket %s does not match magnitude %g", i, r.Bucket, eq.Magnitude)
		}

		switch {
		case r.LocationOffset == presenter.Fallback:
			if r.PrimaryLocation != eq.Location {
				p.errorf("row %d: fallback row rewrote place %q", i, eq.Location)
			}
		case !strings.HasSuffix(r.LocationOffset, presenter.Separator):
			p.errorf("row %d: offset %q does not end with %q", i, r.LocationOffset, presenter.Separator)
		case r.LocationOffset+r.PrimaryLocation != eq.Location:
			p.errorf("row %d: split of %q does not reassemble", i, eq.Location)
		}

		if r.Date == "" || r.Time == "" {
			p.errorf("row %d: empty date or time", i)
		}
		if r.DetailURL != eq.DetailURL {
			p.errorf("row %d: detail url changed", i)
		}
	}
	return p
}

func validateFixture(path string, rows []domain.Row) *phase {
	p := &phase{name: "Rows fixture parity"}
	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read rows fixture: %v", err)
		return p
	}
	var want []domain.Row
	if err := json.Unmarshal(data, &want); err != nil {
		p.errorf("parse rows fixture: %v", err)
		return p
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		p.errorf("rows mismatch (-fixture +presented):\n%s", diff)
	}
	return p
}
