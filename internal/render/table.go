package render

import (
	"io"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// TableOptions controls terminal table output.
type TableOptions struct {
	// PlaceWidth truncates the primary location column; zero disables it.
	PlaceWidth int
	NoColor    bool
	ShowURL    bool
}

// Table writes rows to w in feed order.
func Table(w io.Writer, rows []domain.Row, palette Palette, opts TableOptions) {
	table := tablewriter.NewWriter(w)

	header := []string{"Mag", "Offset", "Location", "Date", "Time"}
	if opts.ShowURL {
		header = append(header, "Details")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, r := range rows {
		table.Append(tableRow(r, palette, opts))
	}
	table.Render()
}

func tableRow(r domain.Row, palette Palette, opts TableOptions) []string {
	mag := r.Magnitude
	if !opts.NoColor {
		mag = color.HEX(palette.Color(r.Bucket)).Sprint(mag)
	}

	place := r.PrimaryLocation
	if opts.PlaceWidth > 0 {
		place = runewidth.Truncate(place, opts.PlaceWidth, "...")
	}

	row := []string{mag, r.LocationOffset, place, r.Date, r.Time}
	if opts.ShowURL {
		row = append(row, r.DetailURL)
	}
	return row
}
