package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/models"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
)

type dashboardCounter interface {
	Counts(ctx context.Context) (*models.DashboardCounts, error)
}

type reservationStatsProvider interface {
	Stats(ctx context.Context) (models.ReservationStats, error)
}

// DashboardServiceParams groups dashboard dependencies.
type DashboardServiceParams struct {
	Counts       dashboardCounter
	Reservations reservationStatsProvider
	Cache        *CacheService
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

// DashboardService composes the landing page summary.
type DashboardService struct {
	counts       dashboardCounter
	reservations reservationStatsProvider
	cache        *CacheService
	ttl          time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		counts:       params.Counts,
		reservations: params.Reservations,
		cache:        params.Cache,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary returns the dashboard summary and whether it came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	if cached, hit := s.tryCache(ctx); hit {
		return cached, true, nil
	}

	counts, err := s.counts.Counts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}

	summary := &models.DashboardSummary{
		Students:          counts.Students,
		ActiveTutors:      counts.ActiveTutors,
		ActiveEnrollments: counts.ActiveEnrollments,
		Unassigned:        counts.Unassigned,
		GeneratedAt:       s.now().UTC(),
	}
	if s.reservations != nil {
		stats, err := s.reservations.Stats(ctx)
		if err != nil {
			return nil, false, err
		}
		summary.Reservations = stats
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, CacheKeyDashboard, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// A failing cache read is treated as a miss; the summary is cheap to rebuild.
func (s *DashboardService) tryCache(ctx context.Context) (*models.DashboardSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	var cached models.DashboardSummary
	hit, err := s.cache.Get(ctx, CacheKeyDashboard, &cached)
	if err != nil || !hit {
		return nil, false
	}
	return &cached, true
}
