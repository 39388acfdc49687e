package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qprocure/inventory-backend/internal/config"
	"github.com/qprocure/inventory-backend/internal/domain"
)

const fleetForecastKey = "forecast:fleet"

// ForecastCache caches the fleet-wide forecast between stock mutations.
// Alerts are derived from the same artifact, so one key covers both reads.
type ForecastCache interface {
	GetFleet(ctx context.Context) ([]domain.Forecast, bool, error)
	SetFleet(ctx context.Context, forecasts []domain.Forecast) error
	Invalidate(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetFleet(ctx context.Context) ([]domain.Forecast, bool, error) {
	payload, err := c.client.Get(ctx, fleetForecastKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecasts []domain.Forecast
	if err := json.Unmarshal(payload, &forecasts); err != nil {
		return nil, false, fmt.Errorf("decode fleet forecast cache: %w", err)
	}

	return forecasts, true, nil
}

func (c *redisForecastCache) SetFleet(ctx context.Context, forecasts []domain.Forecast) error {
	payload, err := json.Marshal(forecasts)
	if err != nil {
		return fmt.Errorf("encode fleet forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, fleetForecastKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, fleetForecastKey).Err()
}

func (n *noopForecastCache) GetFleet(ctx context.Context) ([]domain.Forecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetFleet(ctx context.Context, forecasts []domain.Forecast) error {
	return nil
}

func (n *noopForecastCache) Invalidate(ctx context.Context) error {
	return nil
}
