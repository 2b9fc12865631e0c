package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// QuakeTransformer implements Transformer with the tolerant feed mapper and a
// row presenter.
type QuakeTransformer struct {
	presenter domain.Presenter
	logger    *slog.Logger
}

// NewTransformer creates a QuakeTransformer.
func NewTransformer(presenter domain.Presenter, logger *slog.Logger) *QuakeTransformer {
	return &QuakeTransformer{
		presenter: presenter,
		logger:    logger,
	}
}

// Transform never fails: malformed payloads are logged by the mapper and
// produce the records kept before the failure.
func (t *QuakeTransformer) Transform(_ context.Context, payload string) []domain.PresentedQuake {
	quakes := domain.MapFeed(payload, t.logger)
	return t.presenter.PresentAll(quakes)
}
