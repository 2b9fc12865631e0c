package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	// LocationSeparator splits a USGS place into offset and primary location.
	LocationSeparator = " of "
	// DefaultLocationFallback is shown as the offset when a place has none.
	DefaultLocationFallback = "Near the"

	dateLayout = "Jan 2, 2006"
	timeLayout = "3:04 PM"
)

// MagnitudeBucket is a discretized magnitude used to pick a display color.
type MagnitudeBucket int

// Buckets in ascending order; each maps to a "magnitudeN" color token.
const (
	Bucket0to1 MagnitudeBucket = iota
	Bucket2
	Bucket3
	Bucket4
	Bucket5
	Bucket6
	Bucket7
	Bucket8
	Bucket9
	Bucket10Plus
)

var bucketNames = [...]string{
	Bucket0to1:   "magnitude1",
	Bucket2:      "magnitude2",
	Bucket3:      "magnitude3",
	Bucket4:      "magnitude4",
	Bucket5:      "magnitude5",
	Bucket6:      "magnitude6",
	Bucket7:      "magnitude7",
	Bucket8:      "magnitude8",
	Bucket9:      "magnitude9",
	Bucket10Plus: "magnitude10plus",
}

// AllBuckets lists every bucket from lowest to highest.
func AllBuckets() []MagnitudeBucket {
	return []MagnitudeBucket{
		Bucket0to1, Bucket2, Bucket3, Bucket4, Bucket5,
		Bucket6, Bucket7, Bucket8, Bucket9, Bucket10Plus,
	}
}

func (b MagnitudeBucket) String() string {
	if b < 0 || int(b) >= len(bucketNames) {
		return fmt.Sprintf("MagnitudeBucket(%d)", int(b))
	}
	return bucketNames[b]
}

// MarshalText encodes the bucket as its color token, e.g. "magnitude4".
func (b MagnitudeBucket) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= len(bucketNames) {
		return nil, fmt.Errorf("unknown magnitude bucket %d", int(b))
	}
	return []byte(bucketNames[b]), nil
}

// UnmarshalText decodes a color token produced by MarshalText.
func (b *MagnitudeBucket) UnmarshalText(text []byte) error {
	bucket, err := ParseMagnitudeBucket(string(text))
	if err != nil {
		return err
	}
	*b = bucket
	return nil
}

// ParseMagnitudeBucket resolves a color token such as "magnitude10plus".
func ParseMagnitudeBucket(token string) (MagnitudeBucket, error) {
	for i, name := range bucketNames {
		if name == token {
			return MagnitudeBucket(i), nil
		}
	}
	return 0, fmt.Errorf("unknown magnitude bucket %q", token)
}

// FormatMagnitude renders a magnitude with exactly one fractional digit,
// e.g. 6.0 -> "6.0". Exact ties round half to even.
func FormatMagnitude(magnitude float64) string {
	return strconv.FormatFloat(magnitude, 'f', 1, 64)
}

// MagnitudeColorBucket classifies a magnitude by its floor. Floors 0 and 1
// share a bucket, 2 through 9 each get their own, and every other floor
// (including negative ones) falls through to Bucket10Plus.
func MagnitudeColorBucket(magnitude float64) MagnitudeBucket {
	floor := math.Floor(magnitude)
	if math.IsNaN(floor) {
		// NaN has no floor; classify it with zero.
		return Bucket0to1
	}
	if floor < 0 || floor > 9 {
		return Bucket10Plus
	}

	switch int(floor) {
	case 0, 1:
		return Bucket0to1
	default:
		return MagnitudeBucket(int(floor) - 1)
	}
}

// SplitLocation separates a place description into an offset and a primary
// location at the first occurrence of separator. The separator is kept at the
// end of the offset ("5km N" + " of "). Without a separator the fallback
// becomes the offset and raw is returned unchanged.
func SplitLocation(raw, separator, fallback string) (offset, primary string) {
	if separator == "" {
		return fallback, raw
	}
	before, after, found := strings.Cut(raw, separator)
	if !found {
		return fallback, raw
	}
	return before + separator, after
}

// FormatDate renders epoch milliseconds as "Mar 3, 1984" in loc.
func FormatDate(epochMillis int64, loc *time.Location) string {
	return inZone(epochMillis, loc).Format(dateLayout)
}

// FormatTime renders epoch milliseconds as "4:30 PM" in loc.
func FormatTime(epochMillis int64, loc *time.Location) string {
	return inZone(epochMillis, loc).Format(timeLayout)
}

func inZone(epochMillis int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(epochMillis).In(loc)
}

// Presenter derives list rows from earthquakes.
type Presenter struct {
	Separator string
	Fallback  string
	Location  *time.Location
}

// DefaultPresenter splits on " of ", falls back to "Near the", and renders in
// the local zone.
func DefaultPresenter() Presenter {
	return Presenter{
		Separator: LocationSeparator,
		Fallback:  DefaultLocationFallback,
		Location:  time.Local,
	}
}

// Present builds the row for a single earthquake.
func (p Presenter) Present(eq Earthquake) Row {
	offset, primary := SplitLocation(eq.Location, p.Separator, p.Fallback)
	return Row{
		Magnitude:       FormatMagnitude(eq.Magnitude),
		Bucket:          MagnitudeColorBucket(eq.Magnitude),
		LocationOffset:  offset,
		PrimaryLocation: primary,
		Date:            FormatDate(eq.TimeMillis, p.Location),
		Time:            FormatTime(eq.TimeMillis, p.Location),
		DetailURL:       eq.DetailURL,
	}
}

// PresentAll presents each earthquake, stamping the batch with the package
// clock. Order follows the input.
func (p Presenter) PresentAll(quakes []Earthquake) []PresentedQuake {
	now := clock.Now()
	return lo.Map(quakes, func(eq Earthquake, _ int) PresentedQuake {
		return PresentedQuake{
			Earthquake:  eq,
			Row:         p.Present(eq),
			ProcessedAt: now,
		}
	})
}
