package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	ds    Dataset
	err   error
	delay time.Duration
}

func (s *countingSource) LoadDataset(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.ds, s.err
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memCache struct {
	summary *Summary
	getErr  error
	sets    int
}

func (c *memCache) GetSummary(context.Context) (*Summary, error) {
	return c.summary, c.getErr
}

func (c *memCache) SetSummary(_ context.Context, s Summary) error {
	c.sets++
	c.summary = &s
	return nil
}

func newTestService(src Source, cache Cache) *Service {
	svc := NewService(src, cache, saoPaulo, 8, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboard_CacheAside(t *testing.T) {
	src := &countingSource{ds: testDataset()}
	cache := &memCache{}
	svc := newTestService(src, cache)

	first, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, first.OrdersToday)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.Calls(), "second call must be served from cache")
}

func TestDashboard_RefreshBypassesCache(t *testing.T) {
	src := &countingSource{ds: testDataset()}
	cache := &memCache{summary: &Summary{OrdersToday: 99}}
	svc := newTestService(src, cache)

	s, err := svc.Dashboard(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, s.OrdersToday)
	assert.Equal(t, 1, src.Calls())
}

func TestDashboard_CacheErrorFallsBackToSource(t *testing.T) {
	src := &countingSource{ds: testDataset()}
	cache := &memCache{getErr: errors.New("redis down")}
	svc := newTestService(src, cache)

	s, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 6, s.UnitsToday)
}

func TestDashboard_NilCache(t *testing.T) {
	src := &countingSource{ds: testDataset()}
	svc := newTestService(src, nil)

	_, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Calls())
}

func TestDashboard_SourceError(t *testing.T) {
	src := &countingSource{err: errors.New("select failed")}
	svc := newTestService(src, &memCache{})

	_, err := svc.Dashboard(context.Background(), false)
	assert.EqualError(t, err, "select failed")
}

func TestDashboard_ConcurrentMissesShareLoad(t *testing.T) {
	src := &countingSource{ds: testDataset(), delay: 100 * time.Millisecond}
	svc := newTestService(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Dashboard(context.Background(), false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, src.Calls(), 10)
}

type ctxSource struct {
	ds Dataset
}

func (s *ctxSource) LoadDataset(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	return s.ds, nil
}

func TestDashboard_SharedLoadIgnoresCallerCancel(t *testing.T) {
	svc := newTestService(&ctxSource{ds: testDataset()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := svc.Dashboard(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, s.OrdersToday)
}
