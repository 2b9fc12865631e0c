package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-report/internal/domain"
)

func TestDefaultPalette_CoversEveryBucket(t *testing.T) {
	p := DefaultPalette()
	for _, b := range domain.AllBuckets() {
		assert.True(t, validHex(p[b]), "bucket %s", b)
	}
	assert.Equal(t, "#4A7BA7", p.Color(domain.Bucket0to1))
	assert.Equal(t, "#C03823", p.Color(domain.Bucket10Plus))
}

func TestPalette_ColorFallsBackToDefault(t *testing.T) {
	p := Palette{domain.Bucket7: "#000000"}
	assert.Equal(t, "#000000", p.Color(domain.Bucket7))
	assert.Equal(t, "#F5A623", p.Color(domain.Bucket4))
}

func TestLoadPalette(t *testing.T) {
	p, err := LoadPalette("testdata/palette.yaml")
	require.NoError(t, err)

	assert.Equal(t, "#FF0000", p.Color(domain.Bucket7))
	assert.Equal(t, "#800000", p.Color(domain.Bucket10Plus))
	assert.Equal(t, "#E13A20", p.Color(domain.Bucket8), "untouched buckets keep defaults")
}

func TestLoadPalette_EmptyPath(t *testing.T) {
	p, err := LoadPalette("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette(), p)
}

func TestLoadPalette_Errors(t *testing.T) {
	_, err := LoadPalette("testdata/palette_bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid hex color "red"`)
	assert.Contains(t, err.Error(), `unknown magnitude bucket "magnitude11"`)

	_, err = LoadPalette("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read palette")
}

func TestValidHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#E75F40", true},
		{"#e75f40", true},
		{"#abc", true},
		{"E75F40", false},
		{"#E75F4", false},
		{"#GGGGGG", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validHex(tt.in), tt.in)
	}
}

func sampleRows() []domain.Row {
	p := domain.Presenter{Separator: " of ", Fallback: "Near the"}
	eqs := []domain.Earthquake{
		{Magnitude: 7.2, Location: "88km N of Yelizovo, Russia", TimeMillis: 1454124312220, DetailURL: "u1"},
		{Magnitude: 6.1, Location: "Pacific-Antarctic Ridge", TimeMillis: 1453777820750, DetailURL: "u2"},
	}
	rows := make([]domain.Row, len(eqs))
	for i, eq := range eqs {
		rows[i] = p.Present(eq)
	}
	return rows
}

func TestTable_NoColor(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, sampleRows(), DefaultPalette(), TableOptions{NoColor: true})

	out := buf.String()
	assert.Contains(t, out, "MAG")
	assert.Contains(t, out, "Yelizovo, Russia")
	assert.Contains(t, out, "Near the")
	assert.NotContains(t, out, "DETAILS")
	assert.NotContains(t, out, "\x1b[")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Less(t, strings.Index(out, "7.2"), strings.Index(out, "6.1"), "feed order preserved")
}

func TestTableRow(t *testing.T) {
	rows := sampleRows()

	row := tableRow(rows[0], DefaultPalette(), TableOptions{NoColor: true, PlaceWidth: 8, ShowURL: true})
	assert.Equal(t, []string{"7.2", "88km N of ", "Yeli...", rows[0].Date, rows[0].Time, "u1"}, row)

	row = tableRow(rows[1], DefaultPalette(), TableOptions{})
	require.Len(t, row, 5)
	assert.Contains(t, row[0], "6.1")
	assert.Equal(t, "Pacific-Antarctic Ridge", row[2])
}
