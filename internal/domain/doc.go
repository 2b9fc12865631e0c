// Package domain models USGS earthquake feed data and its list presentation.
//
// # Data Source
//
// Records come from the USGS FDSN event service in GeoJSON form, e.g.
// https://earthquake.usgs.gov/fdsnws/event/1/query?format=geojson&minmag=6.
// Only a subset of each feature is consumed:
//
//	{ "features": [
//	    { "properties": { "mag": 6.2, "place": "5km N of Cairo, Egypt",
//	                      "time": 1454124312220, "url": "https://..." } },
//	    ...
//	] }
//
// # Feed Mapping
//
// [ParseFeed] is a single strict pass over the features array. The first
// structural problem (invalid JSON, missing "features", a feature without
// "properties", a missing or mistyped property) aborts the pass; the records
// built before that feature are returned along with an error wrapping
// [ErrMalformedFeed]. [MapFeed] is the tolerant wrapper used by callers that
// must never fail: it logs the diagnostic and returns what was kept.
//
// # Location Format
//
// USGS place strings either carry an offset or name a region directly:
//
//	"5km N of Cairo, Egypt"   → offset "5km N of ", primary "Cairo, Egypt"
//	"Pacific-Antarctic Ridge" → offset "Near the",  primary unchanged
//
// Only the first separator occurrence splits; the remainder is kept verbatim.
//
// # Magnitude Buckets
//
// Rows are colored by the floor of the magnitude:
//
//	floor 0–1  → magnitude1
//	floor 2..9 → magnitude2 .. magnitude9
//	otherwise  → magnitude10plus (includes negative floors)
//
// # Time
//
// The feed carries epoch milliseconds in UTC. Dates render as "Jan 2, 2006"
// and times as "3:04 PM" in the configured display zone.
package domain
