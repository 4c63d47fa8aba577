package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dongnecli/dongne/internal/log"
)

// Fetcher retrieves raw forecast items for a grid cell and base instant.
type Fetcher interface {
	UltraShortForecast(ctx context.Context, nx, ny int, baseDate, baseTime string) ([]Item, error)
}

// Service memoizes forecast fetches per grid cell and base instant, so the
// status strip can re-render freely without hammering the backend.
type Service struct {
	fetch Fetcher
	cache *cache.Cache
	now   func() time.Time
}

// NewService wraps a fetcher with a stale-bounded cache.
func NewService(f Fetcher, stale time.Duration) *Service {
	return &Service{
		fetch: f,
		cache: cache.New(stale, 2*stale),
		now:   time.Now,
	}
}

// Report fetches (or recalls) the forecast for a grid cell and digests it
// for the current instant.
func (s *Service) Report(ctx context.Context, nx, ny int) (Report, error) {
	now := s.now()
	baseDate, baseTime := BaseDateTime(now)

	key := fmt.Sprintf("%d:%d:%s:%s", nx, ny, baseDate, baseTime)
	if cached, ok := s.cache.Get(key); ok {
		return BuildReport(cached.([]Item), now), nil
	}

	items, err := s.fetch.UltraShortForecast(ctx, nx, ny, baseDate, baseTime)
	if err != nil {
		return Report{}, err
	}
	log.Debug("fetched forecast", "nx", nx, "ny", ny, "base", baseDate+baseTime, "items", len(items))

	s.cache.SetDefault(key, items)
	return BuildReport(items, now), nil
}
