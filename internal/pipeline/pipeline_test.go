package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-collector/internal/domain"
	"github.com/couchcryptid/weather-collector/internal/observability"
)

type mockCollector struct {
	collectFn func(ctx context.Context, region domain.Region) (domain.WeatherRecord, error)
	calls     int
}

func (m *mockCollector) Collect(ctx context.Context, region domain.Region) (domain.WeatherRecord, error) {
	m.calls++
	return m.collectFn(ctx, region)
}

type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newMockStore() *mockStore {
	return &mockStore{objects: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return data, nil
}

func (m *mockStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.objects[key] = data
	return nil
}

type mockPublisher struct {
	err       error
	published []domain.WeatherRecord
}

func (m *mockPublisher) Publish(_ context.Context, rec domain.WeatherRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, rec)
	return nil
}

func recordFor(region domain.Region) domain.WeatherRecord {
	return domain.WeatherRecord{
		Timestamp:          "2026-01-15 18:00:00",
		Region:             region.Name,
		TemperatureCelsius: "5",
		HasAlerts:          "No",
	}
}

func collectorReturningRecords() *mockCollector {
	return &mockCollector{
		collectFn: func(_ context.Context, region domain.Region) (domain.WeatherRecord, error) {
			return recordFor(region), nil
		},
	}
}

func testRegions(n int) []domain.Region {
	regions := make([]domain.Region, n)
	for i := range regions {
		regions[i] = domain.Region{Name: fmt.Sprintf("Region_%d", i), Lat: "40.0", Lon: "-100.0"}
	}
	return regions
}

func testPipeline(c Collector, s SnapshotStore, pub RecordPublisher, regions []domain.Region) *Pipeline {
	return New(c, s, pub, regions, 0,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting())
}

func TestRun_AllRegionsSucceed(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	pub := &mockPublisher{}
	p := testPipeline(collectorReturningRecords(), store, pub, testRegions(3))

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.ProcessedCount)
	assert.Equal(t, 0, summary.FailedCount)
	assert.Equal(t, []string{"Region_0", "Region_1", "Region_2"}, summary.SuccessfulRegions)
	assert.Empty(t, summary.FailedRegions)
	assert.False(t, summary.ExecutionEnd.Before(summary.ExecutionStart))

	data := store.objects["weather_data_2026-01-15.csv"]
	require.NotNil(t, data)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4, "header plus one row per region")

	assert.Len(t, pub.published, 3, "every appended record reaches the feed")
}

func TestRun_RegionFailureContinues(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	c := &mockCollector{
		collectFn: func(_ context.Context, region domain.Region) (domain.WeatherRecord, error) {
			if region.Name == "Region_1" {
				return domain.WeatherRecord{}, errors.New("resolve station: nws API error: status 503")
			}
			return recordFor(region), nil
		},
	}
	p := testPipeline(c, store, nil, testRegions(3))

	summary, err := p.Run(context.Background())
	require.NoError(t, err, "region failures never fail the run")

	assert.Equal(t, 2, summary.ProcessedCount)
	assert.Equal(t, 1, summary.FailedCount)
	require.Len(t, summary.FailedRegions, 1)
	assert.Equal(t, "Region_1", summary.FailedRegions[0].Region)
	assert.Contains(t, summary.FailedRegions[0].Error, "status 503")
	assert.Equal(t, 3, c.calls, "remaining regions still collected")
}

func TestRun_StorePutFailureFailsRegion(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	store.putErr = errors.New("bucket unavailable")
	p := testPipeline(collectorReturningRecords(), store, nil, testRegions(2))

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProcessedCount)
	assert.Equal(t, 2, summary.FailedCount)
	assert.Contains(t, summary.FailedRegions[0].Error, "save record")
}

func TestRun_DuplicateRecordNotPublished(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	pub := &mockPublisher{}
	// Two regions with identical names produce the same composite key, so the
	// second merge is a no-op dedup.
	regions := []domain.Region{
		{Name: "Region_0", Lat: "40.0", Lon: "-100.0"},
		{Name: "Region_0", Lat: "40.0", Lon: "-100.0"},
	}
	p := testPipeline(collectorReturningRecords(), store, pub, regions)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ProcessedCount, "a deduped region still counts as processed")
	assert.Len(t, pub.published, 1, "duplicates never reach the feed")

	data := store.objects["weather_data_2026-01-15.csv"]
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "header plus the single unique row")
}

func TestRun_PublishFailureDoesNotFailRegion(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	pub := &mockPublisher{err: errors.New("broker down")}
	p := testPipeline(collectorReturningRecords(), store, pub, testRegions(1))

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Equal(t, 1, store.puts, "record persisted despite the feed failure")
}

func TestRun_UnreadableSnapshotStartsFresh(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	store.getErr = errors.New("connection reset")
	p := testPipeline(collectorReturningRecords(), store, nil, testRegions(1))

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedCount)

	store.mu.Lock()
	data := store.objects["weather_data_2026-01-15.csv"]
	store.mu.Unlock()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "fresh dataset written over the unreadable one")
}

func TestRun_ContextCancelled(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	ctx, cancel := context.WithCancel(context.Background())

	c := &mockCollector{}
	c.collectFn = func(_ context.Context, region domain.Region) (domain.WeatherRecord, error) {
		if c.calls == 2 {
			cancel()
		}
		return recordFor(region), nil
	}
	p := testPipeline(c, store, nil, testRegions(5))

	summary, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, c.calls, 5, "cancellation cuts the run short")
	assert.NotEmpty(t, summary.RunID, "partial summary still returned")
}

func TestCheckReadiness(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	p := testPipeline(collectorReturningRecords(), store, nil, testRegions(1))

	require.Error(t, p.CheckReadiness(context.Background()), "not ready before any run")

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestLastRun(t *testing.T) {
	freezeClock(t)
	store := newMockStore()
	p := testPipeline(collectorReturningRecords(), store, nil, testRegions(2))

	_, ok := p.LastRun()
	assert.False(t, ok, "no summary before the first run")

	want, err := p.Run(context.Background())
	require.NoError(t, err)

	got, ok := p.LastRun()
	require.True(t, ok)
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, 2, got.ProcessedCount)
}
