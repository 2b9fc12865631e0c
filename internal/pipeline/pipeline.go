package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	maxAttempts    = 4
)

// Extractor retrieves the raw feed payload.
type Extractor interface {
	Extract(ctx context.Context) (string, error)
}

// Transformer maps a feed payload to presented rows.
type Transformer interface {
	Transform(ctx context.Context, payload string) []domain.PresentedQuake
}

// BatchLoader publishes presented rows to a sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, quakes []domain.PresentedQuake) error
}

// Snapshot is the result of the most recent successful poll.
type Snapshot struct {
	PollID    string
	FetchedAt time.Time
	Quakes    []domain.PresentedQuake
}

// Options tunes the poll loop.
type Options struct {
	Interval  time.Duration
	BatchSize int
	Clock     clockwork.Clock
}

// Pipeline polls the feed, presents it, and fans the rows out to a loader.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	interval    time.Duration
	batchSize   int

	ready  atomic.Bool
	latest atomic.Pointer[Snapshot]
}

// New creates a Pipeline. A nil loader keeps rows in the snapshot only.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       opts.Clock,
		interval:    opts.Interval,
		batchSize:   opts.BatchSize,
	}
}

// CheckReadiness returns nil once the first poll has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("feed has not been polled yet")
	}
	return nil
}

// Latest returns the most recent snapshot, if any poll has completed.
func (p *Pipeline) Latest() (Snapshot, bool) {
	s := p.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}

// Run polls immediately and then once per interval until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	p.logger.Info("pipeline started", "interval", p.interval, "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// poll runs one fetch-map-publish cycle.
func (p *Pipeline) poll(ctx context.Context) {
	pollID := uuid.NewString()
	logger := p.logger.With("poll_id", pollID)
	start := p.clock.Now()
	p.metrics.PollsTotal.Inc()

	payload, ok := p.extract(ctx, logger)
	if !ok {
		return
	}

	quakes := p.transformer.Transform(ctx, payload)
	p.metrics.RecordsMapped.Add(float64(len(quakes)))
	p.storeSnapshot(pollID, start, quakes)
	logger.Info("feed polled", "records", len(quakes))

	if err := p.load(ctx, quakes); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("load rows failed", "error", err, "records", len(quakes))
		p.metrics.PollErrors.Inc()
		return
	}

	p.metrics.PollDuration.Observe(p.clock.Since(start).Seconds())
}

// extract fetches the payload, backing off between failed attempts.
func (p *Pipeline) extract(ctx context.Context, logger *slog.Logger) (string, bool) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		payload, err := p.extractor.Extract(ctx)
		if err == nil {
			return payload, true
		}
		if ctx.Err() != nil {
			return "", false
		}

		logger.Error("extract feed failed", "error", err, "attempt", attempt)
		if attempt >= maxAttempts {
			p.metrics.PollErrors.Inc()
			return "", false
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return "", false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

func (p *Pipeline) storeSnapshot(pollID string, fetchedAt time.Time, quakes []domain.PresentedQuake) {
	p.latest.Store(&Snapshot{
		PollID:    pollID,
		FetchedAt: fetchedAt,
		Quakes:    quakes,
	})
	p.ready.Store(true)

	counts := lo.CountValuesBy(quakes, func(q domain.PresentedQuake) domain.MagnitudeBucket {
		return q.Row.Bucket
	})
	for _, b := range domain.AllBuckets() {
		p.metrics.SnapshotRows.WithLabelValues(b.String()).Set(float64(counts[b]))
	}
}

// load publishes rows in chunks of batchSize, preserving feed order.
func (p *Pipeline) load(ctx context.Context, quakes []domain.PresentedQuake) error {
	if p.loader == nil || len(quakes) == 0 {
		return nil
	}
	for _, chunk := range lo.Chunk(quakes, p.batchSize) {
		if err := p.loader.LoadBatch(ctx, chunk); err != nil {
			return err
		}
		p.metrics.RecordsPublished.Add(float64(len(chunk)))
	}
	return nil
}
