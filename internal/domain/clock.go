package domain

import "github.com/jonboulle/clockwork"

// clock stamps PresentedQuake.ProcessedAt.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock behind ProcessedAt so fixtures and tests get
// stable stamps. A nil clock restores wall time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
