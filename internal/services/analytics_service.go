package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skipfeed/go-search-backend/internal/domain"
	"github.com/skipfeed/go-search-backend/internal/platform"
	"github.com/skipfeed/go-search-backend/internal/repo"
)

// AnalyticsService maintains the singleton usage counters. Every mutation is
// a read-modify-write of the one row, serialized by an in-process mutex so
// concurrent requests cannot lose increments.
type AnalyticsService struct {
	DB *gorm.DB

	mu  sync.Mutex
	now func() time.Time
}

// NewAnalyticsService wires an AnalyticsService to the given database handle.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db, now: time.Now}
}

// mutate loads the counters, applies fn, and persists the result under the
// service mutex.
func (s *AnalyticsService) mutate(ctx context.Context, fn func(a *domain.UsageAnalytics)) (domain.UsageAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := repo.GetAnalytics(ctx, s.DB, s.now())
	if err != nil {
		return domain.UsageAnalytics{}, err
	}
	fn(&a)
	if err := repo.SaveAnalytics(ctx, s.DB, a); err != nil {
		return domain.UsageAnalytics{}, err
	}
	return a, nil
}

// RecordSearch increments the total, per-platform, and per-day counters for
// one completed search.
func (s *AnalyticsService) RecordSearch(ctx context.Context, id platform.ID) (domain.UsageAnalytics, error) {
	if _, err := platform.Lookup(id); err != nil {
		return domain.UsageAnalytics{}, ErrInvalidPlatform
	}
	day := s.now().Format(domain.DateKeyFormat)
	return s.mutate(ctx, func(a *domain.UsageAnalytics) {
		a.TotalSearches++
		a.SearchesByPlatform[string(id)]++
		a.DailySearches[day]++
	})
}

// RecordTimeSpent adds ms to the per-platform time accumulator. Negative
// durations are clamped to zero and logged rather than rejected, because
// client clocks jump.
func (s *AnalyticsService) RecordTimeSpent(ctx context.Context, id platform.ID, ms int64) (domain.UsageAnalytics, error) {
	if _, err := platform.Lookup(id); err != nil {
		return domain.UsageAnalytics{}, ErrInvalidPlatform
	}
	if ms < 0 {
		log.Ctx(ctx).Warn().
			Str("platform", string(id)).
			Int64("duration_ms", ms).
			Msg("negative time-spent duration clamped to zero")
		ms = 0
	}
	return s.mutate(ctx, func(a *domain.UsageAnalytics) {
		a.TimeSpentOnPlatforms[string(id)] += ms
	})
}

// Snapshot returns the current counters without modifying them. An absent row
// reads as a zeroed record.
func (s *AnalyticsService) Snapshot(ctx context.Context) (domain.UsageAnalytics, error) {
	return repo.GetAnalytics(ctx, s.DB, s.now())
}

// TodaysSearchCount returns the number of searches recorded today.
func (s *AnalyticsService) TodaysSearchCount(ctx context.Context) (int64, error) {
	a, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return a.TodaysSearchCount(s.now()), nil
}

// TopPlatforms returns per-platform search counts, most used first.
func (s *AnalyticsService) TopPlatforms(ctx context.Context) ([]domain.PlatformCount, error) {
	a, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.MostUsedPlatforms(), nil
}

// Reset zeroes every counter while keeping the row, stamping LastResetDate.
func (s *AnalyticsService) Reset(ctx context.Context) (domain.UsageAnalytics, error) {
	return s.mutate(ctx, func(a *domain.UsageAnalytics) {
		*a = domain.NewUsageAnalytics(s.now())
	})
}

// Clear deletes the counters row entirely. A later read sees a zeroed record.
func (s *AnalyticsService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repo.DeleteAnalytics(ctx, s.DB)
}

// PruneDailyOlderThan drops per-day keys older than the given number of days.
// It returns the number of keys removed.
func (s *AnalyticsService) PruneDailyOlderThan(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	bound := s.now().AddDate(0, 0, -days).Format(domain.DateKeyFormat)
	removed := 0
	_, err := s.mutate(ctx, func(a *domain.UsageAnalytics) {
		for k := range a.DailySearches {
			if k < bound {
				delete(a.DailySearches, k)
				removed++
			}
		}
	})
	return removed, err
}
