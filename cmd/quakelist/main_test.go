package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../internal/domain/testdata/feed_two.json"

func TestRun_File(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", fixture, "-tz", "UTC", "-no-color", "-urls"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "7.2")
	assert.Contains(t, out, "88km N of")
	assert.Contains(t, out, "Yelizovo, Russia")
	assert.Contains(t, out, "Jan 30, 2016")
	assert.Contains(t, out, "3:25 AM")
	assert.Contains(t, out, "Near the")
	assert.Contains(t, out, "us20004vvx")
}

func TestRun_MalformedFileShowsNothing(t *testing.T) {
	path := t.TempDir() + "/bad.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection"}`), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", path, "-no-color"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "No earthquakes found.")
	assert.Contains(t, stderr.String(), "problem parsing the earthquake JSON results")
}

func TestRun_FetchFailureShowsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-base-url", srv.URL, "-no-color"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "No earthquakes found.")
	assert.Contains(t, stderr.String(), "problem retrieving the earthquake JSON results")
}

func TestRun_Fetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"features":[{"properties":{"mag":5.5,"place":"10km SW of Ridgecrest, CA","time":0,"url":"u"}}]}`)
	}))
	t.Cleanup(srv.Close)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-base-url", srv.URL, "-min-mag", "5", "-limit", "3", "-tz", "UTC", "-no-color"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "eventtype=earthquake&format=geojson&limit=3&minmag=5&orderby=time", gotQuery)
	assert.Contains(t, stdout.String(), "Ridgecrest, CA")
	assert.Contains(t, stdout.String(), "Jan 1, 1970")
}

func TestRun_BadTimezone(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-tz", "Mars/Olympus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid -tz")
}
