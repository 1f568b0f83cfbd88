package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pos-storefront/report"

	"github.com/redis/go-redis/v9"
)

// DashboardCacheKey holds the last computed dashboard. The worker listens
// for its expiry to rebuild it.
const DashboardCacheKey = "report:dashboard"

type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl}
}

// GetSummary returns nil, nil on a miss.
func (c *ReportCache) GetSummary(ctx context.Context) (*report.Summary, error) {
	raw, err := c.rdb.Get(ctx, DashboardCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s report.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *ReportCache) SetSummary(ctx context.Context, s report.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.SetEx(ctx, DashboardCacheKey, raw, c.ttl).Err()
}
