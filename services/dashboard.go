package services

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"visitlens/api/analytics"
	"visitlens/api/config"
	"visitlens/api/models"
	"visitlens/api/observability"
)

// VisitSource provides the raw visit log.
type VisitSource interface {
	ListVisitsSince(ctx context.Context, since time.Time) ([]models.VisitRecord, error)
}

// ContentSource provides the CMS collections correlated with visits.
type ContentSource interface {
	ListContactRequests(ctx context.Context) ([]models.ContactRequest, error)
	ListBlogPosts(ctx context.Context) ([]models.BlogPost, error)
}

// DashboardService loads a snapshot from the stores and hands it to the
// analytics engine. Results are memoised per filter for a short TTL and
// concurrent requests for the same filter share one computation.
type DashboardService struct {
	visits  VisitSource
	content ContentSource
	cache   *lru.LRU[string, *analytics.Dashboard]
	group   singleflight.Group
	metrics *observability.Metrics
	log     *zap.Logger
	now     func() time.Time

	computeTimeout time.Duration
}

func NewDashboardService(visits VisitSource, content ContentSource, cfg config.DashboardConfig, metrics *observability.Metrics, log *zap.Logger) *DashboardService {
	s := &DashboardService{
		visits:  visits,
		content: content,
		metrics: metrics,
		log:     log,
		now:     time.Now,

		computeTimeout: cfg.ComputeTimeout,
	}
	if cfg.CacheTTL > 0 {
		s.cache = lru.NewLRU[string, *analytics.Dashboard](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return s
}

// Dashboard returns every derived structure for f. The only rejected input is
// a non-positive window, reported as analytics.ErrInvalidWindow.
func (s *DashboardService) Dashboard(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error) {
	if f.WindowDays <= 0 {
		return nil, fmt.Errorf("dashboard (window %d): %w", f.WindowDays, analytics.ErrInvalidWindow)
	}

	key := fmt.Sprintf("%d|%s", f.WindowDays, f.Country)
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			s.metrics.DashboardCacheHitsTotal.Inc()
			return d, nil
		}
	}
	s.metrics.DashboardCacheMissTotal.Inc()

	// The shared computation outlives any single caller; each caller only
	// waits on it until its own ctx is done.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		computeCtx, cancel := s.detach(ctx)
		defer cancel()

		d, err := s.compute(computeCtx, f)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Add(key, d)
		}
		return d, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("dashboard (window %d): %w", f.WindowDays, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*analytics.Dashboard), nil
	}
}

// detach keeps ctx values but drops its cancellation, bounding the result by
// computeTimeout instead.
func (s *DashboardService) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.computeTimeout > 0 {
		return context.WithTimeout(base, s.computeTimeout)
	}
	return context.WithCancel(base)
}

func (s *DashboardService) compute(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error) {
	start := time.Now()
	now := s.now()

	since := now.Add(-time.Duration(f.WindowDays) * 24 * time.Hour)
	visits, err := s.visits.ListVisitsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}
	contacts, err := s.content.ListContactRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact requests: %w", err)
	}
	posts, err := s.content.ListBlogPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load blog posts: %w", err)
	}

	d, err := analytics.Compute(analytics.Input{
		Visits:   visits,
		Contacts: contacts,
		Posts:    posts,
	}, f, now)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.DashboardComputeDuration.Observe(elapsed.Seconds())
	s.log.Debug("Dashboard computed",
		zap.Int("window_days", f.WindowDays),
		zap.String("country", f.Country),
		zap.Int("visits", len(visits)),
		zap.Duration("elapsed", elapsed))
	return d, nil
}
