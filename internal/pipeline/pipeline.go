package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/weather-collector/internal/domain"
	"github.com/couchcryptid/weather-collector/internal/observability"
)

// Collector produces one normalized record per region.
type Collector interface {
	Collect(ctx context.Context, region domain.Region) (domain.WeatherRecord, error)
}

// SnapshotStore persists daily dataset objects by key.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// RecordPublisher forwards newly appended records to the optional feed.
type RecordPublisher interface {
	Publish(ctx context.Context, rec domain.WeatherRecord) error
}

// Pipeline orchestrates one collection run: every configured region in
// order, collect-merge-persist, with a pacing delay between region starts.
//
// Regions are strictly sequential; the pacing delay exists to respect the
// NWS API's rate-limit expectations, not as backpressure. A region's
// failure is recorded and the run continues. The read-merge-write against
// the dataset object carries no concurrency control: two overlapping runs
// on the same date partition can lose one run's records, so deployments
// schedule a single invocation at a time.
type Pipeline struct {
	collector Collector
	store     SnapshotStore
	publisher RecordPublisher // nil when the record feed is disabled
	regions   []domain.Region
	pacing    time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu      sync.Mutex
	lastRun *domain.RunSummary
}

// New creates a Pipeline. Pass a nil publisher to disable the record feed.
func New(collector Collector, store SnapshotStore, publisher RecordPublisher,
	regions []domain.Region, pacing time.Duration,
	logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		collector: collector,
		store:     store,
		publisher: publisher,
		regions:   regions,
		pacing:    pacing,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one region has been persisted,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no collection run has persisted a record yet")
	}
	return nil
}

// LastRun returns the most recent run summary, if any run has completed.
func (p *Pipeline) LastRun() (domain.RunSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastRun == nil {
		return domain.RunSummary{}, false
	}
	return *p.lastRun, true
}

// Run executes one full collection pass over all regions and returns its
// summary. Individual region failures are recorded in the summary, never
// returned as an error; a non-nil error means the run itself was cut short
// (context cancellation), and the partial summary is still returned.
func (p *Pipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	summary := domain.RunSummary{
		RunID:             uuid.NewString(),
		ExecutionStart:    time.Now().UTC(),
		SuccessfulRegions: []string{},
		FailedRegions:     []domain.RegionFailure{},
	}

	p.logger.Info("collection run started", "run_id", summary.RunID, "regions", len(p.regions))
	p.metrics.CollectorRunning.Set(1)
	defer p.metrics.CollectorRunning.Set(0)

	for i, region := range p.regions {
		// Pace between region starts, never before the first.
		if i > 0 && !sleepWithContext(ctx, p.pacing) {
			return p.finish(summary, ctx.Err())
		}
		if ctx.Err() != nil {
			return p.finish(summary, ctx.Err())
		}

		if err := p.processRegion(ctx, region); err != nil {
			if ctx.Err() != nil {
				return p.finish(summary, ctx.Err())
			}
			summary.FailedCount++
			summary.FailedRegions = append(summary.FailedRegions, domain.RegionFailure{
				Region: region.Name,
				Error:  err.Error(),
			})
			p.metrics.RegionsProcessed.WithLabelValues("failure").Inc()
			p.logger.Error("region collection failed", "run_id", summary.RunID,
				"region", region.Name, "error", err)
			continue
		}

		summary.ProcessedCount++
		summary.SuccessfulRegions = append(summary.SuccessfulRegions, region.Name)
		p.metrics.RegionsProcessed.WithLabelValues("success").Inc()
		p.ready.Store(true)
	}

	return p.finish(summary, nil)
}

func (p *Pipeline) finish(summary domain.RunSummary, err error) (domain.RunSummary, error) {
	summary.ExecutionEnd = time.Now().UTC()
	p.metrics.RunDuration.Observe(summary.ExecutionEnd.Sub(summary.ExecutionStart).Seconds())
	if summary.ProcessedCount > 0 {
		p.metrics.LastRunSuccess.SetToCurrentTime()
	}

	p.mu.Lock()
	p.lastRun = &summary
	p.mu.Unlock()

	p.logger.Info("collection run completed", "run_id", summary.RunID,
		"processed", summary.ProcessedCount, "failed", summary.FailedCount,
		"duration", summary.ExecutionEnd.Sub(summary.ExecutionStart))
	return summary, err
}

// processRegion runs collect-merge-persist for one region.
func (p *Pipeline) processRegion(ctx context.Context, region domain.Region) error {
	record, err := p.collector.Collect(ctx, region)
	if err != nil {
		return err
	}

	appended, err := p.saveRecord(ctx, &record)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	if appended && p.publisher != nil {
		// The dataset is the source of truth; losing a feed message is
		// tolerable and must not fail the region.
		if err := p.publisher.Publish(ctx, record); err != nil {
			p.logger.Warn("record publish failed", "region", region.Name, "error", err)
		}
	}
	return nil
}

// saveRecord merges the record into today's dataset snapshot and writes the
// replacement object back. Reports whether the record was newly appended.
func (p *Pipeline) saveRecord(ctx context.Context, record *domain.WeatherRecord) (bool, error) {
	key := domain.CurrentSnapshotKey()

	existing, err := p.store.Get(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return false, err
		}
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			// An unreadable snapshot gets the same treatment as a corrupt
			// one: start the day's dataset over.
			p.logger.Warn("snapshot read failed, starting fresh dataset", "key", key, "error", err)
			p.metrics.SnapshotResets.Inc()
		}
		existing = nil
	}

	result, err := domain.MergeRecord(existing, record)
	if err != nil {
		return false, fmt.Errorf("merge dataset: %w", err)
	}
	if result.Reset {
		p.logger.Warn("existing dataset was empty or corrupt, replaced it", "key", key)
		p.metrics.SnapshotResets.Inc()
	}

	if err := p.store.Put(ctx, key, result.Data, "text/csv"); err != nil {
		return false, fmt.Errorf("put snapshot %q: %w", key, err)
	}

	if result.Appended {
		p.metrics.RecordsAppended.Inc()
	} else {
		p.metrics.DuplicatesSkipped.Inc()
		p.logger.Debug("duplicate record key, dataset unchanged", "key", record.Key())
	}
	return result.Appended, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
