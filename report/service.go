package report

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source loads the full reporting history from the backend.
type Source interface {
	LoadDataset(ctx context.Context) (Dataset, error)
}

// Cache keeps the last computed summary. A miss is (nil, nil).
type Cache interface {
	GetSummary(ctx context.Context) (*Summary, error)
	SetSummary(ctx context.Context, s Summary) error
}

type Service struct {
	src    Source
	cache  Cache
	group  singleflight.Group
	loc    *time.Location
	topN   int
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds the dashboard service. cache may be nil, in which case
// every call hits the backend.
func NewService(src Source, cache Cache, loc *time.Location, topN int, logger *zap.Logger) *Service {
	return &Service{
		src:    src,
		cache:  cache,
		loc:    loc,
		topN:   topN,
		now:    time.Now,
		logger: logger,
	}
}

// Dashboard returns the summary, from cache unless refresh is set.
// Concurrent misses share one backend load.
func (s *Service) Dashboard(ctx context.Context, refresh bool) (Summary, error) {
	if !refresh && s.cache != nil {
		cached, err := s.cache.GetSummary(ctx)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	// the load is shared, so one caller going away must not fail the rest
	shared := context.WithoutCancel(ctx)
	v, err, wasShared := s.group.Do("dashboard", func() (interface{}, error) {
		return s.compute(shared)
	})
	if err != nil {
		return Summary{}, err
	}
	if wasShared {
		s.logger.Debug("dashboard load shared with concurrent caller")
	}
	return v.(Summary), nil
}

func (s *Service) compute(ctx context.Context) (Summary, error) {
	ds, err := s.src.LoadDataset(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summarize(ds, s.now(), s.loc, s.topN)
	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("dashboard computed",
		zap.Int("orders", len(ds.Orders)),
		zap.Int("details", len(ds.Details)),
		zap.Float64("revenue_today", summary.RevenueToday))
	return summary, nil
}
