package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedFeed marks a payload whose structure does not match the
// expected GeoJSON shape.
var ErrMalformedFeed = errors.New("malformed earthquake feed")

// validate checks presence of required keys. Pointer fields let it tell a
// missing key (or JSON null) apart from a zero value.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// The documents below are filled by exact key lookup. encoding/json folds
// case when matching struct fields, and "FEATURES" is not "features".
type feedDocument struct {
	Features *[]json.RawMessage `json:"features" validate:"required"`
}

type featureDocument struct {
	Properties *featureProperties `json:"properties" validate:"required"`
}

type featureProperties struct {
	Mag   *float64 `json:"mag" validate:"required"`
	Place *string  `json:"place" validate:"required"`
	Time  *int64   `json:"time" validate:"required"`
	URL   *string  `json:"url" validate:"required"`
}

// ParseFeed maps a USGS GeoJSON payload to earthquakes in feature order.
// An empty payload yields no records and no error. The first structural
// error stops the pass: records built before the failing feature are
// returned together with an error wrapping ErrMalformedFeed.
func ParseFeed(payload []byte) ([]Earthquake, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	doc, err := decodeFeed(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}
	if err := checkRequired(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	features := *doc.Features
	quakes := make([]Earthquake, 0, len(features))
	for i, raw := range features {
		eq, err := parseFeature(raw)
		if err != nil {
			return quakes, fmt.Errorf("%w: feature %d: %w", ErrMalformedFeed, i, err)
		}
		quakes = append(quakes, eq)
	}
	return quakes, nil
}

func decodeFeed(payload []byte) (feedDocument, error) {
	var doc feedDocument
	obj, err := decodeObject(payload)
	if err != nil {
		return doc, err
	}
	err = lookup(obj, "features", &doc.Features)
	return doc, err
}

// MapFeed is the non-failing form of ParseFeed. Parse problems are logged and
// whatever was built before the failure is returned.
func MapFeed(payload string, logger *slog.Logger) []Earthquake {
	quakes, err := ParseFeed([]byte(payload))
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("problem parsing the earthquake JSON results",
			"error", err,
			"kept", len(quakes),
		)
	}
	return quakes
}

func parseFeature(raw json.RawMessage) (Earthquake, error) {
	f, err := decodeFeature(raw)
	if err != nil {
		return Earthquake{}, err
	}
	if err := checkRequired(f); err != nil {
		return Earthquake{}, err
	}

	p := f.Properties
	return Earthquake{
		Magnitude:  *p.Mag,
		Location:   *p.Place,
		TimeMillis: *p.Time,
		DetailURL:  *p.URL,
	}, nil
}

func decodeFeature(raw json.RawMessage) (featureDocument, error) {
	var f featureDocument
	obj, err := decodeObject(raw)
	if err != nil {
		return f, err
	}

	var props map[string]json.RawMessage
	if err := lookup(obj, "properties", &props); err != nil {
		return f, err
	}
	if props == nil {
		return f, nil
	}

	p := &featureProperties{}
	fields := []struct {
		key string
		dst any
	}{
		{"mag", &p.Mag},
		{"place", &p.Place},
		{"time", &p.Time},
		{"url", &p.URL},
	}
	for _, fld := range fields {
		if err := lookup(props, fld.key, fld.dst); err != nil {
			return f, fmt.Errorf("properties.%s: %w", fld.key, err)
		}
	}
	f.Properties = p
	return f, nil
}

// decodeObject decodes a JSON object keeping its keys verbatim. JSON null
// decodes to a nil map.
func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// lookup decodes obj[key] into dst. An absent key leaves dst untouched so
// the validator reports it as missing.
func lookup(obj map[string]json.RawMessage, key string, dst any) error {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// checkRequired reports the first missing field by its JSON path,
// e.g. `missing required field "properties.mag"`.
func checkRequired(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		path := verrs[0].Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		return fmt.Errorf("missing required field %q", path)
	}
	return err
}
