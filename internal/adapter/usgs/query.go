package usgs

import (
	"net/url"
	"strconv"
)

// DefaultBaseURL is the USGS FDSN event query endpoint.
const DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// Query describes an FDSN event search returning GeoJSON.
type Query struct {
	EventType    string
	OrderBy      string
	MinMagnitude float64
	Limit        int
}

// DefaultQuery returns the ten most recent earthquakes of magnitude 6 or more.
func DefaultQuery() Query {
	return Query{
		EventType:    "earthquake",
		OrderBy:      "time",
		MinMagnitude: 6,
		Limit:        10,
	}
}

// URL encodes the query against base. Zero-valued fields are omitted.
func (q Query) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("format", "geojson")
	if q.EventType != "" {
		params.Set("eventtype", q.EventType)
	}
	if q.OrderBy != "" {
		params.Set("orderby", q.OrderBy)
	}
	if q.MinMagnitude > 0 {
		params.Set("minmag", strconv.FormatFloat(q.MinMagnitude, 'f', -1, 64))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
